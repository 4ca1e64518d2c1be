package controller

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/dragdrop"
	"github.com/alexanderramin/ganttkit/internal/fixture"
	"github.com/alexanderramin/ganttkit/internal/flatten"
)

// view is what a dataset flattens to under the current preferences.
type view struct {
	rows    []domain.Row
	sources []domain.ArrowSource
	legend  []domain.LegendItem
}

// dataset owns one page's fixture.
type dataset interface {
	load(ctx context.Context, src fixture.Source, name string) ([]error, error)
	flatten(prefs domain.Preferences) view
	// drop folds a finished drag into the fixture so the next flatten shows
	// it. rows is the current view's rows, used to validate the drop.
	drop(rows []domain.Row, info domain.DropInfo, mode dragdrop.OffsetMode) (dragdrop.Result, bool)
}

func newDataset(kind DatasetKind) (dataset, error) {
	switch kind {
	case DatasetGantt:
		return &ganttDataset{}, nil
	case DatasetSchedule:
		return &scheduleDataset{}, nil
	default:
		return nil, fmt.Errorf("unknown dataset kind %q", kind)
	}
}

type ganttDataset struct {
	tree  []*fixture.Node
	moves []flatten.Move
}

func (d *ganttDataset) load(ctx context.Context, src fixture.Source, name string) ([]error, error) {
	data, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	f, err := fixture.ParseGantt(data)
	if err != nil {
		return nil, err
	}
	d.tree = f.Tree()
	d.moves = nil
	return fixture.ValidateGantt(f), nil
}

func (d *ganttDataset) flatten(prefs domain.Preferences) view {
	rows := flatten.Gantt(d.tree, flatten.GanttOptions{
		ShowRelativeTime: prefs.ShowRelativeTime,
		Moves:            d.moves,
	}, flatten.NewIDGen())
	return view{rows: rows}
}

// drop shifts the dragged tree node and remembers the row its bars now sit
// on, so dates, grid values and placement survive every flatten.
func (d *ganttDataset) drop(rows []domain.Row, info domain.DropInfo, mode dragdrop.OffsetMode) (dragdrop.Result, bool) {
	res, ok := dragdrop.ApplyToRows(rows, info, mode)
	if !ok {
		return res, false
	}
	if n := fixture.FindNode(d.tree, res.EntityID); n != nil {
		n.Shift(res.Offset)
	}
	if res.RowChanged {
		if to := flatten.FindRow(rows, info.FinalRow.ID); to != nil {
			d.place(res.EntityID, to.RowEntityID)
		}
	}
	return res, true
}

// place records that node's bars are drawn on host's row. Moving a node
// back onto its own row forgets the move.
func (d *ganttDataset) place(node, host int) {
	kept := d.moves[:0]
	for _, m := range d.moves {
		if m.NodeID != node {
			kept = append(kept, m)
		}
	}
	d.moves = kept
	if host != node {
		d.moves = append(d.moves, flatten.Move{NodeID: node, RowNodeID: host})
	}
}

type scheduleDataset struct {
	schedule *fixture.Schedule
}

func (d *scheduleDataset) load(ctx context.Context, src fixture.Source, name string) ([]error, error) {
	data, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	s, err := fixture.ParseSchedule(data)
	if err != nil {
		return nil, err
	}
	d.schedule = s
	return fixture.ValidateSchedule(s), nil
}

func (d *scheduleDataset) flatten(prefs domain.Preferences) view {
	res := flatten.Schedule(d.schedule, flatten.ScheduleOptions{
		ShowOverlay: prefs.ShowOverlay,
		ColorBy:     prefs.ColorBy,
	}, flatten.NewIDGen())
	return view{rows: res.Rows, sources: res.Sources, legend: res.Legend}
}

func (d *scheduleDataset) drop(_ []domain.Row, info domain.DropInfo, _ dragdrop.OffsetMode) (dragdrop.Result, bool) {
	return dragdrop.ApplyToSchedule(d.schedule, info)
}

