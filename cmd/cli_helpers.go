package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/oakwood-commons/streamview/internal/formatter"
	"github.com/oakwood-commons/streamview/pkg/settings"
)

var stdinIsPiped = func() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// usageError marks errors caused by invalid flags or config rather than by
// the input stream.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// ExitCode maps an Execute error to a process exit code: 0 on success, 2 for
// invalid flags or config, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// openInput opens the file named by args, or stdin when no file is given
// (or it is "-") and stdin is piped.
func openInput(args []string) (io.ReadCloser, settings.InputSettings, error) {
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, settings.InputSettings{}, fmt.Errorf("open input: %w", err)
		}
		return f, settings.InputSettings{Path: args[0]}, nil
	}
	if len(args) == 0 && !stdinIsPiped() {
		return nil, settings.InputSettings{}, errShowHelp
	}
	return io.NopCloser(os.Stdin), settings.InputSettings{FromStdin: true}, nil
}

// cliVersionString builds the version line for `streamview version` and --version.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

// formatNames lists the --output values, e.g. "table|json|yaml|toml".
func formatNames() string {
	formats := formatter.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, "|")
}
