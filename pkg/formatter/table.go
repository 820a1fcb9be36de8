// File: pkg/formatter/table.go
package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	succeededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Table renders borderless, left aligned columns in the style of cloud CLI list output
type Table struct {
	Headers []string
	Rows    [][]string
}

// Creates a new table with the given headers
func NewTable(headers []string) *Table {
	return &Table{
		Headers: headers,
		Rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	return widths
}

// Returns the string representation of the table
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.columnWidths()
	var sb strings.Builder

	t.writeRow(&sb, t.Headers, widths)
	for _, row := range t.Rows {
		sb.WriteString("\n")
		t.writeRow(&sb, row, widths)
	}
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, row []string, widths []int) {
	var line strings.Builder
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			line.WriteString(columnGap)
		}
		line.WriteString(cell)
		if i < len(widths)-1 {
			line.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
	}
	sb.WriteString(strings.TrimRight(line.String(), " "))
}

// Formats a section header with a title
func FormatHeaderSection(title string) string {
	border := strings.Repeat("=", lipgloss.Width(title)+4)
	return border + "\n" + headerStyle.Render("  "+title) + "\n" + border
}

// Formats a simple section title
func FormatSectionTitle(title string) string {
	return sectionStyle.Render(title)
}
