package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TableColumn defines a column in a table. A zero Width sizes the column
// to its widest cell.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table buffers rows and renders them with aligned columns. Cells may
// carry ANSI styling; widths are measured on the visible text.
type Table struct {
	columns []TableColumn
	rows    [][]string
	header  lipgloss.Style
}

// NewTable creates a table with the given columns.
func NewTable(columns ...TableColumn) *Table {
	return &Table{
		columns: columns,
		header:  NewOutputStyles().Header,
	}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the header and every row.
func (t *Table) Render(w io.Writer) error {
	widths := t.widths()

	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	if _, err := fmt.Fprintln(w, t.header.Render(t.line(names, widths))); err != nil {
		return err
	}
	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, t.line(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		if c.Width > 0 {
			widths[i] = c.Width
			continue
		}
		widths[i] = runewidth.StringWidth(c.Name)
		for _, row := range t.rows {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *Table) line(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = pad(fit(cell, widths[i]), widths[i], t.columns[i].Align)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// fit truncates plain cells that exceed width. Styled cells are left as is
// because cutting through an escape sequence would corrupt the terminal.
func fit(cell string, width int) string {
	if width <= 1 || lipgloss.Width(cell) <= width || strings.Contains(cell, "\x1b[") {
		return cell
	}
	return runewidth.Truncate(cell, width, "…")
}

func pad(cell string, width int, align Alignment) string {
	gap := width - lipgloss.Width(cell)
	if gap <= 0 {
		return cell
	}
	if align == AlignRight {
		return strings.Repeat(" ", gap) + cell
	}
	return cell + strings.Repeat(" ", gap)
}
