package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// BorderStyle controls table border characters.
type BorderStyle int

const (
	BorderASCII   BorderStyle = iota // +-+|
	BorderRounded                    // ╭─╮╰╯│┬┴├┤┼
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
	BorderNone                       // no borders, space-separated columns
)

var borderNames = map[string]BorderStyle{
	"ascii":   BorderASCII,
	"rounded": BorderRounded,
	"heavy":   BorderHeavy,
	"double":  BorderDouble,
	"none":    BorderNone,
}

// String returns the config name of the border style.
func (b BorderStyle) String() string {
	for name, style := range borderNames {
		if style == b {
			return name
		}
	}
	return fmt.Sprintf("BorderStyle(%d)", int(b))
}

// ParseBorder parses a border style name. Empty input selects BorderASCII.
func ParseBorder(s string) (BorderStyle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BorderASCII, nil
	}
	if b, ok := borderNames[s]; ok {
		return b, nil
	}
	return BorderASCII, fmt.Errorf("unknown border style %q (expected ascii, rounded, heavy, double or none)", s)
}

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var borderSets = map[BorderStyle]borderChars{
	BorderASCII: {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topTee: "+", bottomTee: "+", leftTee: "+", rightTee: "+",
		cross: "+",
	},
	BorderRounded: {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
		cross: "┼",
	},
	BorderHeavy: {
		topLeft: "┏", topRight: "┓", bottomLeft: "┗", bottomRight: "┛",
		horizontal: "━", vertical: "┃",
		topTee: "┳", bottomTee: "┻", leftTee: "┣", rightTee: "┫",
		cross: "╋",
	},
	BorderDouble: {
		topLeft: "╔", topRight: "╗", bottomLeft: "╚", bottomRight: "╝",
		horizontal: "═", vertical: "║",
		topTee: "╦", bottomTee: "╩", leftTee: "╠", rightTee: "╣",
		cross: "╬",
	},
}

// Table is a bordered, column-aligned text table.
//
// The zero value sorts rows by the first column, left-aligns every column,
// draws ASCII borders and applies no width cap.
type Table struct {
	Header []string
	Rows   [][]string
	// SortBy is the column rows are sorted on, ascending and byte-wise.
	// A negative column keeps insertion order.
	SortBy int
	Align  []Alignment
	// MaxWidth caps the display width of every cell; longer cells wrap.
	// Zero means no cap.
	MaxWidth int
	Border   BorderStyle
	NoColor  bool
}

// String renders the table into a string.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

// Render writes the table to w in a single Write call.
func (t *Table) Render(w io.Writer) error {
	numCols := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	if numCols == 0 {
		return nil
	}

	rows := t.sortedRows()
	header := t.wrapRow(t.Header, numCols)
	body := make([][][]string, len(rows))
	for i, row := range rows {
		body[i] = t.wrapRow(row, numCols)
	}
	widths := computeWidths(numCols, header, body)
	aligns := extendAligns(t.Align, numCols)

	var sb strings.Builder
	if t.Border == BorderNone {
		t.renderPlain(&sb, header, body, widths, aligns)
	} else {
		t.renderBordered(&sb, header, body, widths, aligns)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Table) sortedRows() [][]string {
	rows := make([][]string, len(t.Rows))
	copy(rows, t.Rows)
	col := t.SortBy
	if col < 0 {
		return rows
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return cellAt(rows[i], col) < cellAt(rows[j], col)
	})
	return rows
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// wrapRow splits every cell into display lines: first on embedded newlines,
// then at MaxWidth. Tabs are expanded before measuring.
func (t *Table) wrapRow(cells []string, numCols int) [][]string {
	if len(cells) == 0 {
		return nil
	}
	out := make([][]string, numCols)
	for i := range numCols {
		var lines []string
		for _, line := range strings.Split(expandTabs(cellAt(cells, i)), "\n") {
			lines = append(lines, wrapLine(line, t.MaxWidth)...)
		}
		out[i] = lines
	}
	return out
}

// wrapLine breaks s into lines no wider than width, preferring word
// boundaries and hard-breaking words that do not fit on their own. Space
// runs inside a line are kept; the run a line breaks at is dropped.
func wrapLine(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	gap := ""
	for _, tok := range spaceRuns(s) {
		if tok[0] == ' ' {
			gap = tok
			continue
		}
		ww := runewidth.StringWidth(tok)
		if curWidth > 0 && curWidth+len(gap)+ww <= width {
			cur.WriteString(gap)
			cur.WriteString(tok)
			curWidth += len(gap) + ww
			gap = ""
			continue
		}
		if curWidth > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		} else if len(lines) == 0 && len(gap)+ww <= width {
			// leading indentation
			tok = gap + tok
			ww += len(gap)
		}
		gap = ""
		for ww > width {
			head := runewidth.Truncate(tok, width, "")
			if head == "" {
				// a single rune wider than the cap still has to advance
				_, size := utf8.DecodeRuneInString(tok)
				head = tok[:size]
			}
			lines = append(lines, head)
			tok = tok[len(head):]
			ww = runewidth.StringWidth(tok)
		}
		cur.WriteString(tok)
		curWidth = ww
	}
	if gap != "" && curWidth > 0 && curWidth+len(gap) <= width {
		cur.WriteString(gap)
		curWidth += len(gap)
	}
	if curWidth > 0 || len(lines) == 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// spaceRuns splits s into alternating runs of spaces and non-spaces.
func spaceRuns(s string) []string {
	var runs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || (s[i] == ' ') != (s[start] == ' ') {
			runs = append(runs, s[start:i])
			start = i
		}
	}
	return runs
}

func computeWidths(numCols int, header [][]string, body [][][]string) []int {
	widths := make([]int, numCols)
	measure := func(cells [][]string) {
		for i, lines := range cells {
			for _, line := range lines {
				if w := runewidth.StringWidth(line); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	measure(header)
	for _, row := range body {
		measure(row)
	}
	return widths
}

func extendAligns(aligns []Alignment, numCols int) []Alignment {
	if len(aligns) >= numCols {
		return aligns[:numCols]
	}
	extended := make([]Alignment, numCols)
	copy(extended, aligns)
	return extended
}

func lineCount(cells [][]string) int {
	n := 1
	for _, lines := range cells {
		if len(lines) > n {
			n = len(lines)
		}
	}
	return n
}

func lineAt(cells [][]string, col, line int) string {
	if col < len(cells) && line < len(cells[col]) {
		return cells[col][line]
	}
	return ""
}

func (t *Table) style(s lipgloss.Style, text string) string {
	if t.NoColor || text == "" {
		return text
	}
	return s.Render(text)
}

// cellStyle picks the style for a cell: header, key (first column) or value.
func cellStyle(isHeader bool, col int) lipgloss.Style {
	switch {
	case isHeader:
		return headerStyle
	case col == 0:
		return keyStyle
	default:
		return valueStyle
	}
}

// --- Bordered table ---

func (t *Table) renderBordered(sb *strings.Builder, header [][]string, body [][][]string, widths []int, aligns []Alignment) {
	bc := borderSets[t.Border]

	t.hLine(sb, widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight)
	if header != nil {
		t.borderedRow(sb, header, widths, aligns, bc.vertical, true)
		t.hLine(sb, widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee)
	}
	for _, row := range body {
		t.borderedRow(sb, row, widths, aligns, bc.vertical, false)
	}
	t.hLine(sb, widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
}

func (t *Table) hLine(sb *strings.Builder, widths []int, left, fill, mid, right string) {
	var line strings.Builder
	line.WriteString(left)
	for i, width := range widths {
		line.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			line.WriteString(mid)
		}
	}
	line.WriteString(right)
	sb.WriteString(t.style(borderStyle, line.String()))
	sb.WriteByte('\n')
}

func (t *Table) borderedRow(sb *strings.Builder, cells [][]string, widths []int, aligns []Alignment, vert string, isHeader bool) {
	v := t.style(borderStyle, vert)
	for line := range lineCount(cells) {
		sb.WriteString(v)
		for i, width := range widths {
			sb.WriteByte(' ')
			formatted := alignCell(lineAt(cells, i, line), width, aligns[i])
			sb.WriteString(t.style(cellStyle(isHeader, i), formatted))
			sb.WriteByte(' ')
			sb.WriteString(v)
		}
		sb.WriteByte('\n')
	}
}

// --- Plain table (BorderNone) ---

func (t *Table) renderPlain(sb *strings.Builder, header [][]string, body [][][]string, widths []int, aligns []Alignment) {
	if header != nil {
		t.plainRow(sb, header, widths, aligns, true)
		sep := make([]string, len(widths))
		for i, width := range widths {
			sep[i] = strings.Repeat("-", width)
		}
		sb.WriteString(t.style(borderStyle, strings.Join(sep, "  ")))
		sb.WriteByte('\n')
	}
	for _, row := range body {
		t.plainRow(sb, row, widths, aligns, false)
	}
}

func (t *Table) plainRow(sb *strings.Builder, cells [][]string, widths []int, aligns []Alignment, isHeader bool) {
	for line := range lineCount(cells) {
		last := len(widths) - 1
		// trailing padding of the last column is dropped so lines carry no
		// trailing whitespace
		for last > 0 && lineAt(cells, last, line) == "" {
			last--
		}
		for i := 0; i <= last; i++ {
			cell := lineAt(cells, i, line)
			formatted := alignCell(cell, widths[i], aligns[i])
			if i == last && aligns[i] == AlignLeft {
				formatted = cell
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(t.style(cellStyle(isHeader, i), formatted))
		}
		sb.WriteByte('\n')
	}
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
