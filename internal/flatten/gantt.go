package flatten

import (
	"time"

	"github.com/alexanderramin/ganttkit/internal/color"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/fixture"
	"github.com/alexanderramin/ganttkit/internal/format"
)

// GanttOptions are the toggles and drops that change gantt output.
type GanttOptions struct {
	ShowRelativeTime bool
	// Moves lists bars dropped onto another node's row, oldest first.
	Moves []Move
}

// Move draws the bars of node NodeID on the row of node RowNodeID. The node
// keeps its own row, grid values and children.
type Move struct {
	NodeID    int
	RowNodeID int
}

// Gantt emits one row per tree node, nested like the tree. Grid values are
// name, start, end and duration; with ShowRelativeTime start and end are
// offsets from the earliest root start. Moves naming unknown nodes are
// skipped.
func Gantt(tree []*fixture.Node, opts GanttOptions, ids *IDGen) []domain.Row {
	f := ganttFlattener{
		opts:   opts,
		ids:    ids,
		origin: earliestStart(tree),
		moved:  make(map[int]bool, len(opts.Moves)),
		guests: make(map[int][]*fixture.Node, len(opts.Moves)),
	}
	for _, m := range opts.Moves {
		n, host := fixture.FindNode(tree, m.NodeID), fixture.FindNode(tree, m.RowNodeID)
		if n == nil || host == nil || n == host || f.moved[n.ID] {
			continue
		}
		f.moved[n.ID] = true
		f.guests[host.ID] = append(f.guests[host.ID], n)
	}
	return f.rows(tree)
}

type ganttFlattener struct {
	opts   GanttOptions
	ids    *IDGen
	origin time.Time
	// moved holds the nodes drawn elsewhere; guests maps a host node to the
	// nodes drawn on its row.
	moved  map[int]bool
	guests map[int][]*fixture.Node
}

func (f *ganttFlattener) rows(nodes []*fixture.Node) []domain.Row {
	out := make([]domain.Row, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, f.row(n))
	}
	return out
}

func (f *ganttFlattener) row(n *fixture.Node) domain.Row {
	r := domain.Row{
		ID:            f.ids.NextRow(),
		GridValues:    f.gridValues(n),
		RowEntityType: n.Kind,
		RowEntityID:   n.ID,
	}
	r.Bars = []domain.Bar{}
	if !f.moved[n.ID] {
		r.Bars = f.bars(n)
	}
	for _, g := range f.guests[n.ID] {
		r.Bars = append(r.Bars, f.bars(g)...)
	}
	r.ChildRows = f.rows(n.Children)
	return r
}

func (f *ganttFlattener) gridValues(n *fixture.Node) []string {
	start, end := format.GridDate(n.StartDate), format.GridDate(n.EndDate)
	if f.opts.ShowRelativeTime {
		start = format.RelativeOffset(f.origin, n.StartDate)
		end = format.RelativeOffset(f.origin, n.EndDate)
	}
	return []string{n.Name, start, end, format.DaysHoursMinutes(n.StartDate, n.EndDate)}
}

func (f *ganttFlattener) bars(n *fixture.Node) []domain.Bar {
	bg, ok := kindColors[n.Kind]
	if !ok {
		bg = color.White
	}
	draggable := n.Kind == domain.EntityProcedure || n.Kind == domain.EntityOperation

	main := domain.Bar{
		ID:            f.ids.NextBar(),
		Text:          n.Name,
		Type:          domain.BarNormal,
		StartDate:     n.StartDate,
		EndDate:       n.EndDate,
		BarStyle:      solidStyle(bg, color.Foreground(bg), "black"),
		IsDraggable:   draggable,
		BarEntityType: n.Kind,
		BarEntityID:   n.ID,
	}
	if len(n.Breaks) == 0 {
		return []domain.Bar{main}
	}

	main.Text = ""
	bars := make([]domain.Bar, 0, len(n.Breaks)+2)
	bars = append(bars, main)
	for _, br := range n.Breaks {
		bars = append(bars, domain.Bar{
			ID:            f.ids.NextBar(),
			Type:          domain.BarNormal,
			StartDate:     br.StartDate.Time,
			EndDate:       br.EndDate.Time,
			BarStyle:      breakStyle(),
			BarEntityType: domain.EntityBreak,
			BarEntityID:   n.ID,
		})
	}
	bars = append(bars, domain.Bar{
		ID:            f.ids.NextBar(),
		Text:          n.Name,
		Type:          domain.BarNormal,
		StartDate:     n.StartDate,
		EndDate:       n.EndDate,
		BarStyle:      solidStyle(color.Transparent, nameColor, "black"),
		BarEntityType: n.Kind,
		BarEntityID:   n.ID,
	})
	return bars
}

func earliestStart(roots []*fixture.Node) time.Time {
	var origin time.Time
	for i, n := range roots {
		if i == 0 || n.StartDate.Before(origin) {
			origin = n.StartDate
		}
	}
	return origin
}
