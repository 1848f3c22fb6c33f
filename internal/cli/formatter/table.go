package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colGap        = 2
	overdueMarker = "!"
)

// Table collects rows for aligned terminal output. Rows added with Late
// carry a red gutter marker and are counted in a footer line, so overdue
// work stands out in listings that mix on-time and late items.
type Table struct {
	headers []string
	rows    [][]string
	late    []bool
	clip    map[int]int
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers, clip: map[int]int{}}
}

// Clip caps the visible width of column col. Styled cells are cut without
// breaking their escape sequences.
func (t *Table) Clip(col, width int) *Table {
	t.clip[col] = width
	return t
}

func (t *Table) Row(cells ...string) *Table {
	return t.add(false, cells)
}

// Late adds a row that is past its SLA or due date.
func (t *Table) Late(late bool, cells ...string) *Table {
	return t.add(late, cells)
}

func (t *Table) add(late bool, cells []string) *Table {
	row := make([]string, len(t.headers))
	for i := range row {
		if i >= len(cells) {
			break
		}
		row[i] = cells[i]
		if w, ok := t.clip[i]; ok && lipgloss.Width(row[i]) > w {
			row[i] = lipgloss.NewStyle().MaxWidth(w).Render(row[i])
		}
	}
	t.rows = append(t.rows, row)
	t.late = append(t.late, late)
	return t
}

func (t *Table) lateCount() int {
	n := 0
	for _, l := range t.late {
		if l {
			n++
		}
	}
	return n
}

// String renders the header, a separator and every row. An empty table
// renders a placeholder instead of a bare header.
func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}
	if len(t.rows) == 0 {
		return Dim("(none)") + "\n"
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	late := t.lateCount()
	gutter := func(marked bool) string {
		switch {
		case late == 0:
			return ""
		case marked:
			return StyleRed.Render(overdueMarker) + strings.Repeat(" ", colGap)
		default:
			return strings.Repeat(" ", len(overdueMarker)+colGap)
		}
	}

	var b strings.Builder
	b.WriteString(gutter(false))
	writeCells(&b, widths, t.headers, StyleHeader.Render)
	b.WriteString(gutter(false))
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	writeCells(&b, widths, seps, StyleDim.Render)
	for i, row := range t.rows {
		b.WriteString(gutter(t.late[i]))
		writeCells(&b, widths, row, nil)
	}
	if late > 0 {
		b.WriteString(StyleRed.Render(fmt.Sprintf("%d overdue", late)) + "\n")
	}
	return b.String()
}

// writeCells pads each cell to its column width by visible length. The last
// column is never padded.
func writeCells(b *strings.Builder, widths []int, cells []string, style func(...string) string) {
	for i, cell := range cells {
		pad := widths[i] - lipgloss.Width(cell)
		if style != nil {
			cell = style(cell)
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", max(pad, 0)+colGap))
		}
	}
	b.WriteString("\n")
}

// RenderTable renders plain rows with no overdue marking.
func RenderTable(headers []string, rows [][]string) string {
	t := NewTable(headers...)
	for _, r := range rows {
		t.Row(r...)
	}
	return t.String()
}
