package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/dustin/go-humanize/english"
)

// FormatPages renders the registered pages as a table.
func FormatPages(pages []contract.PageInfo) string {
	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, []string{StyleGreen.Render(p.Name), p.Title, Dim(p.StorageKey), p.Dataset})
	}
	return RenderTable([]string{"PAGE", "TITLE", "STORAGE KEY", "DATASET"}, rows)
}

// RowTitle is the first grid value of a row, or a dim placeholder for the
// continuation rows of a resource.
func RowTitle(r *domain.Row) string {
	if len(r.GridValues) == 0 || r.GridValues[0] == "" {
		return Dim("·")
	}
	if r.GridValues[0] == "!" {
		return StyleRed.Render("! conflict")
	}
	return EntityStyle(r.RowEntityType).Render(r.GridValues[0])
}

// RowDetail summarises the remaining grid values, or the bar count when a
// row has a single grid column.
func RowDetail(r *domain.Row) string {
	if len(r.GridValues) > 1 {
		return Dim(strings.Join(r.GridValues[1:], "  "))
	}
	return Dim(english.Plural(len(r.Bars), "bar", ""))
}

func rowMarker(v VisibleRow) string {
	switch {
	case !v.HasChildren():
		return " "
	case v.Expanded:
		return StyleBlue.Render("▾")
	default:
		return StyleBlue.Render("▸")
	}
}

// TreeItems converts visible rows into tree lines.
func TreeItems(visible []VisibleRow) []TreeItem {
	items := make([]TreeItem, 0, len(visible))
	for _, v := range visible {
		items = append(items, TreeItem{
			Title:     RowTitle(v.Row),
			Level:     v.Depth,
			Ancestors: v.Ancestors,
			IsLast:    v.IsLast,
			Marker:    rowMarker(v),
			Detail:    RowDetail(v.Row),
		})
	}
	return items
}

// ChartSummary is the one-line description of the chart state above a tree.
func ChartSummary(p contract.ChartProps) string {
	parts := []string{Bold(p.Title), p.TimeScale.DisplayName}
	if p.AutoTimeScale {
		parts[1] += Dim(" (auto)")
	}
	if p.ScaleText != "" {
		label := "zoom " + p.ScaleText
		if p.ScaleLocked {
			label += Dim(" (locked)")
		}
		parts = append(parts, label)
	}
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"relative", p.ShowRelativeTime},
		{"arrows", p.ShowArrows},
		{"overlay", p.ShowOverlay},
	} {
		if f.on {
			parts = append(parts, StyleGreen.Render(f.name))
		}
	}
	return strings.Join(parts, Dim(" · "))
}

// FormatChart renders the chart props as a collapsible row tree followed by
// the legend and arrow count when those are switched on.
func FormatChart(p contract.ChartProps, expandAll bool) string {
	var b strings.Builder
	b.WriteString(ChartSummary(p) + "\n\n")

	visible := VisibleRows(p.Data.Rows, p.RowStatus, expandAll)
	if len(visible) == 0 {
		b.WriteString(Dim("No rows.") + "\n")
	} else {
		b.WriteString(RenderTree(TreeItems(visible)))
	}

	if p.ShowChartLegend && len(p.Legend) > 0 {
		b.WriteString("\n" + FormatLegend(p.Legend))
	}
	if p.ShowArrows {
		b.WriteString("\n" + Dim(english.Plural(len(p.Data.Arrows), "dependency arrow", "")) + "\n")
	}
	return b.String()
}

// FormatLegend renders legend entries with color swatches.
func FormatLegend(items []domain.LegendItem) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(Swatch(it.Color) + " " + it.Name + "\n")
	}
	return b.String()
}

// FormatBars lists the bars of one row.
func FormatBars(r *domain.Row) string {
	rows := make([][]string, 0, len(r.Bars))
	for _, bar := range r.Bars {
		text := bar.Text
		if text == "" {
			text = Dim(string(bar.BarEntityType))
		}
		drag := ""
		if bar.IsDraggable {
			drag = StyleGreen.Render("✔")
		}
		rows = append(rows, []string{
			fmt.Sprint(bar.ID),
			Swatch(bar.BarStyle.BackgroundColor) + " " + text,
			string(bar.Type),
			bar.StartDate.UTC().Format("2006-01-02 15:04"),
			bar.EndDate.UTC().Format("2006-01-02 15:04"),
			drag,
		})
	}
	return RenderTable([]string{"BAR", "TEXT", "TYPE", "START", "END", "DRAG"}, rows)
}

// FormatDrops renders drop log entries newest first.
func FormatDrops(events []*contract.DropEvent, now time.Time) string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			TruncID(e.ID),
			e.Page,
			fmt.Sprintf("%d", e.BarID),
			fmt.Sprintf("%s %d", e.EntityType, e.EntityID),
			rowMove(e.InitialRowID, e.FinalRowID),
			FormatOffset(e.OffsetMin),
			Dim(HumanTime(e.RecordedAt, now)),
		})
	}
	return RenderTable([]string{"ID", "PAGE", "BAR", "ENTITY", "ROW", "OFFSET", "RECORDED"}, rows)
}

func rowMove(from, to int) string {
	if from == to {
		return fmt.Sprint(from)
	}
	return fmt.Sprintf("%d → %d", from, to)
}

// FormatDropResult describes the outcome of a drop.
func FormatDropResult(r *contract.DropResponse) string {
	if !r.Applied {
		return StyleYellow.Render("Drop rejected") + Dim(" (target row not allowed for this bar)")
	}
	msg := fmt.Sprintf("Moved %s by %s", english.Plural(r.Moved, "item", ""), FormatOffset(r.OffsetMin))
	if r.RowChanged {
		msg += " to a new row"
	}
	return StyleGreen.Render(msg)
}
