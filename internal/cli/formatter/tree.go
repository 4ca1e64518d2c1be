package formatter

import (
	"strings"

	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single line of a tree display.
type TreeItem struct {
	Title string
	Level int
	// Ancestors records, per level above this one, whether that ancestor was
	// the last of its siblings. It decides where the vertical pipes run.
	Ancestors []bool
	IsLast    bool
	Marker    string
	Detail    string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors, with detail text aligned in a second column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for _, last := range item.Ancestors {
				if last {
					prefix.WriteString(treeBlank)
				} else {
					prefix.WriteString(treePipe)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		marker := ""
		if item.Marker != "" {
			marker = item.Marker + " "
		}
		contents[i] = StyleDim.Render(prefix.String()) + marker + item.Title
		widest = max(widest, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(contents[i])+colGap))
			b.WriteString(item.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// VisibleRow is one row as it appears in a collapsible tree.
type VisibleRow struct {
	Row       *domain.Row
	Depth     int
	Ancestors []bool
	IsLast    bool
	Expanded  bool
}

// HasChildren reports whether the row can be expanded.
func (v VisibleRow) HasChildren() bool {
	return len(v.Row.ChildRows) > 0
}

// VisibleRows lists rows in pre-order, descending only into rows that
// status marks expanded (or every row when expandAll is set).
func VisibleRows(rows []domain.Row, status domain.RowStatus, expandAll bool) []VisibleRow {
	var out []VisibleRow
	var walk func(rows []domain.Row, depth int, ancestors []bool)
	walk = func(rows []domain.Row, depth int, ancestors []bool) {
		for i := range rows {
			r := &rows[i]
			expanded := expandAll || status[r.ID].IsExpanded
			v := VisibleRow{
				Row:       r,
				Depth:     depth,
				Ancestors: ancestors,
				IsLast:    i == len(rows)-1,
				Expanded:  expanded && len(r.ChildRows) > 0,
			}
			out = append(out, v)
			if v.Expanded {
				next := append(append([]bool(nil), ancestors...), v.IsLast)
				if depth == 0 {
					next = nil
				}
				walk(r.ChildRows, depth+1, next)
			}
		}
	}
	walk(rows, 0, nil)
	return out
}
