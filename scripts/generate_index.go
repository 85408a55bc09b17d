// Command generate_index renders README.md into dist/index.html for the
// release download page, replacing the Installation section with links to
// the archives goreleaser wrote into the dist directory.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/streamview/pkg/settings"
)

// platform maps an archive name fragment to a display name.
type platform struct {
	key   string
	name  string
	marks []string
}

var platforms = []platform{
	{key: "darwin-amd64", name: "macOS (Intel)", marks: []string{"Darwin_x86_64", "darwin_amd64"}},
	{key: "darwin-arm64", name: "macOS (Apple Silicon)", marks: []string{"Darwin_arm64", "darwin_arm64"}},
	{key: "linux-amd64", name: "Linux (x86_64)", marks: []string{"Linux_x86_64", "linux_amd64"}},
	{key: "linux-arm64", name: "Linux (ARM64)", marks: []string{"Linux_arm64", "linux_arm64"}},
	{key: "windows-amd64", name: "Windows (x86_64)", marks: []string{"Windows_x86_64", "windows_amd64"}},
	{key: "windows-arm64", name: "Windows (ARM64)", marks: []string{"Windows_arm64", "windows_arm64"}},
}

var archiveVersionRe = regexp.MustCompile(`^` + regexp.QuoteMeta(settings.CliBinaryName) +
	`_([^_]+(?:-[^_]+)*)_(?:Darwin|Linux|Windows)_(?:arm64|x86_64)\.(?:tar\.gz|zip)$`)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	distDir := os.Args[1]

	readme, err := os.ReadFile("README.md")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading README.md: %v\n", err)
		os.Exit(1)
	}
	entries, err := os.ReadDir(distDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", distDir, err)
		os.Exit(1)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	indexPath := filepath.Join(distDir, "index.html")
	f, err := os.Create(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating index.html: %v\n", err)
		os.Exit(1)
	}
	if err := writeIndex(f, readme, names); err != nil {
		_ = f.Close()
		fmt.Fprintf(os.Stderr, "Error writing index.html: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing index.html: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generated %s\n", indexPath)
}

// writeIndex writes the full HTML page for readme and the archive files.
func writeIndex(w io.Writer, readme []byte, files []string) error {
	body := renderMarkdown(readme)
	downloads := downloadsHTML(versionFromFiles(files), files)
	body = replaceInstallationSection(body, downloads)

	if _, err := io.WriteString(w, pageHeader()); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

func renderMarkdown(src []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(src)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

// versionFromFiles finds the version in archive names like
// streamview_0.1.0-SNAPSHOT-abc123_Darwin_arm64.tar.gz.
func versionFromFiles(files []string) string {
	for _, name := range files {
		if m := archiveVersionRe.FindStringSubmatch(name); len(m) >= 2 {
			return m[1]
		}
	}
	return "unknown"
}

func platformFor(name string) (platform, bool) {
	for _, p := range platforms {
		for _, mark := range p.marks {
			if strings.Contains(name, mark) {
				return p, true
			}
		}
	}
	return platform{}, false
}

// downloadsHTML lists one archive per platform, ordered by platform key.
func downloadsHTML(version string, files []string) string {
	archives := make(map[string]string)
	names := make(map[string]string)
	for _, name := range files {
		if !strings.HasSuffix(name, ".tar.gz") && !strings.HasSuffix(name, ".zip") {
			continue
		}
		if strings.Contains(name, "SHA256") {
			continue
		}
		p, ok := platformFor(name)
		if !ok {
			continue
		}
		if _, seen := archives[p.key]; !seen {
			archives[p.key] = name
			names[p.key] = p.name
		}
	}
	keys := make([]string, 0, len(archives))
	for k := range archives {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("  <div class=\"downloads\">\n    <h2>Downloads</h2>\n    <div class=\"version-section\">\n")
	fmt.Fprintf(&sb, "      <h3>%s</h3>\n      <table class=\"download-table\">\n", version)
	for _, k := range keys {
		fmt.Fprintf(&sb, "        <tr>\n          <td class=\"platform-name\">%s</td>\n          <td class=\"platform-links\"><a href=\"%s\">download</a></td>\n        </tr>\n", names[k], archives[k])
	}
	sb.WriteString("      </table>\n    </div>\n  </div>\n")
	return sb.String()
}

func pageHeader() string {
	return `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>` + settings.CliBinaryName + ` - Reddit stream tables for the terminal</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    h1 { color: #c2410c; border-bottom: 2px solid #c2410c; padding-bottom: 10px; }
    h2 { color: #9a3412; margin-top: 30px; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
    pre { background: #1e293b; color: #e2e8f0; padding: 16px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; padding: 0; }
    .downloads { background: #fff7ed; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #c2410c; }
    .downloads h2 { margin-top: 0; }
    .version-section { margin: 15px 0; padding: 10px; background: white; border-radius: 4px; }
    .download-table { width: 100%; border-collapse: collapse; }
    .download-table td { padding: 6px 8px; }
    .platform-name { font-weight: 500; width: 200px; }
    .platform-links a { color: #c2410c; text-decoration: none; font-weight: 500; }
  </style>
</head>
<body>
`
}

// replaceInstallationSection swaps the README's Installation section for the
// downloads table. The page is returned unchanged when the section or the
// heading after it is missing.
func replaceInstallationSection(page []byte, downloads string) []byte {
	s := string(page)
	start := strings.Index(s, `<h2 id="installation">`)
	if start == -1 {
		start = strings.Index(s, `<h2 id="install">`)
	}
	if start == -1 {
		return page
	}
	rest := s[start+len(`<h2 id="`):]
	next := strings.Index(rest, `<h2 id="`)
	if next == -1 {
		return page
	}
	next += start + len(`<h2 id="`)

	bin := settings.CliBinaryName
	replacement := `<h2 id="installation">Installation</h2>

` + downloads + `
<p>Extract the archive and move the binary to your PATH:</p>

<pre><code class="language-bash"># macOS / Linux
tar -xzf ` + bin + `_*.tar.gz
sudo mv ` + bin + ` /usr/local/bin/

# Windows
# Extract the .zip file and add ` + bin + `.exe to your PATH
</code></pre>

`
	return []byte(s[:start] + replacement + s[next:])
}
