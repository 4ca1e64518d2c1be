package flatten

import (
	"github.com/alexanderramin/ganttkit/internal/color"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/fixture"
)

// ScheduleOptions are the toggles that change scheduler output.
type ScheduleOptions struct {
	ShowOverlay bool
	// ColorBy is the operation color field, "campaignColor" or "batchColor".
	ColorBy string
}

// Result is the flattened scheduler chart.
type Result struct {
	Rows    []domain.Row
	Sources []domain.ArrowSource
	Legend  []domain.LegendItem
}

// Schedule emits equipment rows followed by staff rows. Each resource gets
// one row per required row; tasks land on the row their row index names.
func Schedule(s *fixture.Schedule, opts ScheduleOptions, ids *IDGen) Result {
	f := scheduleFlattener{opts: opts, ids: ids}
	var res Result

	lastRow := make(map[int]int, len(s.Equipment))
	for i := range s.Equipment {
		e := &s.Equipment[i]
		rows := f.equipmentRows(e)
		if len(rows) > 0 {
			lastRow[e.EquipmentID] = rows[len(rows)-1].ID
		}
		res.Rows = append(res.Rows, rows...)
	}
	assignDroppableRows(res.Rows, s, lastRow)

	for i := range s.Staff {
		res.Rows = append(res.Rows, f.staffRows(&s.Staff[i])...)
	}
	if res.Rows == nil {
		res.Rows = []domain.Row{}
	}

	res.Sources = f.sources
	res.Legend = legend(s, opts.ColorBy)
	return res
}

type scheduleFlattener struct {
	opts    ScheduleOptions
	ids     *IDGen
	sources []domain.ArrowSource
}

func resourceCaption(rowIndex int, name string, conflicted bool) string {
	switch {
	case rowIndex == 0:
		return name
	case conflicted:
		return "!"
	default:
		return ""
	}
}

func (f *scheduleFlattener) equipmentRows(e *fixture.Equipment) []domain.Row {
	n := e.RowsNeeded()
	rows := make([]domain.Row, 0, n)
	for i := 0; i < n; i++ {
		rowNumber := i + 1
		r := domain.Row{
			ID:            f.ids.NextRow(),
			Bars:          []domain.Bar{},
			GridValues:    []string{resourceCaption(i, e.EquipmentName, e.IsConflicted)},
			ChildRows:     []domain.Row{},
			RowEntityType: domain.EntityEquipment,
			RowEntityID:   e.EquipmentID,
		}

		for pi := range e.ProcEntryTasks {
			p := &e.ProcEntryTasks[pi]
			if fixture.RowOrDefault(p.Row) != rowNumber {
				continue
			}
			r.Bars = append(r.Bars, f.operationBars(p.OpEntryTasks, rowNumber, !f.opts.ShowOverlay, false, true)...)
			r.Bars = append(r.Bars, f.procedureBars(p)...)
		}
		r.Bars = append(r.Bars, f.operationBars(e.OpEntryTasks, rowNumber, true, true, true)...)
		r.Bars = append(r.Bars, f.outageBars(e.Outages)...)
		rows = append(rows, r)
	}
	return rows
}

func (f *scheduleFlattener) staffRows(s *fixture.Staff) []domain.Row {
	n := s.RowsNeeded()
	rows := make([]domain.Row, 0, n)
	for i := 0; i < n; i++ {
		r := domain.Row{
			ID:            f.ids.NextRow(),
			Bars:          []domain.Bar{},
			GridValues:    []string{resourceCaption(i, s.StaffName, s.IsConflicted)},
			ChildRows:     []domain.Row{},
			RowEntityType: domain.EntityStaff,
		}
		r.Bars = append(r.Bars, f.operationBars(s.OpEntryTasks, i+1, true, true, false)...)
		r.Bars = append(r.Bars, f.outageBars(s.Outages)...)
		rows = append(rows, r)
	}
	return rows
}

// procedureBars returns the dotted overlay for a procedure task, plus a red
// one when the procedure has conflicts.
func (f *scheduleFlattener) procedureBars(p *fixture.ProcEntryTask) []domain.Bar {
	fg := color.Black
	if len(p.OpEntryTasks) > 0 {
		fg = color.Foreground(color.IntToRGBA(p.OpEntryTasks[0].Color(f.opts.ColorBy)))
	}
	for _, op := range p.OpEntryTasks {
		if op.HasBreaks() {
			fg = nameColor
			break
		}
	}

	text := ""
	if f.opts.ShowOverlay {
		text = p.ProcedureName
	}
	overlay := func(text, border string) domain.Bar {
		return domain.Bar{
			ID:            f.ids.NextBar(),
			Text:          text,
			Type:          domain.BarOverlay,
			StartDate:     p.StartDate.Time,
			EndDate:       p.EndDate.Time,
			BarStyle:      overlayStyle(border, fg),
			IsDraggable:   true,
			BarEntityType: domain.EntityProcedure,
			BarEntityID:   p.ProcedureID,
		}
	}

	bars := []domain.Bar{overlay(text, "blue")}
	if len(p.ConflictIndexes) > 0 {
		bars = append(bars, overlay("", "red"))
	}
	return bars
}

// operationBars renders the operations placed on rowNumber. When withArrows
// is set each operation's main bar is recorded as an arrow source.
func (f *scheduleFlattener) operationBars(ops []fixture.OpEntryTask, rowNumber int, showName, draggable, withArrows bool) []domain.Bar {
	var bars []domain.Bar
	for i := range ops {
		op := &ops[i]
		if fixture.RowOrDefault(op.Row) != rowNumber {
			continue
		}
		bg := color.IntToRGBA(op.Color(f.opts.ColorBy))
		conflicted := len(op.ConflictIndexes) > 0

		main := domain.Bar{
			ID:            f.ids.NextBar(),
			Type:          domain.BarNormal,
			StartDate:     op.StartDate.Time,
			EndDate:       op.EndDate.Time,
			BarStyle:      solidStyle(bg, color.Foreground(bg), operationBorder(conflicted)),
			IsDraggable:   draggable,
			BarEntityType: domain.EntityOperation,
			BarEntityID:   op.OperationID,
			ProcedureName: op.ProcedureName,
		}
		if showName && !op.HasBreaks() {
			main.Text = op.OperationName
		}
		bars = append(bars, main)

		if op.HasBreaks() {
			for _, br := range op.Breaks {
				bars = append(bars, domain.Bar{
					ID:            f.ids.NextBar(),
					Type:          domain.BarNormal,
					StartDate:     br.StartDate.Time,
					EndDate:       br.EndDate.Time,
					BarStyle:      breakStyle(),
					BarEntityType: domain.EntityBreak,
					BarEntityID:   op.OperationID,
				})
			}
			label := domain.Bar{
				ID:            f.ids.NextBar(),
				Type:          domain.BarNormal,
				StartDate:     op.StartDate.Time,
				EndDate:       op.EndDate.Time,
				BarStyle:      solidStyle(color.Transparent, nameColor, operationBorder(conflicted)),
				BarEntityType: domain.EntityOperation,
				BarEntityID:   op.OperationID,
			}
			if showName {
				label.Text = op.OperationName
			}
			bars = append(bars, label)
		}

		if withArrows {
			f.sources = append(f.sources, arrowSource(main.ID, op))
		}
	}
	return bars
}

func (f *scheduleFlattener) outageBars(outages []fixture.Interval) []domain.Bar {
	bars := make([]domain.Bar, 0, len(outages))
	for _, o := range outages {
		bars = append(bars, domain.Bar{
			ID:            f.ids.NextBar(),
			Type:          domain.BarBackdrop,
			StartDate:     o.StartDate.Time,
			EndDate:       o.EndDate.Time,
			BarStyle:      outageStyle(),
			BarEntityType: domain.EntityOutage,
		})
	}
	return bars
}

func arrowSource(barID int, op *fixture.OpEntryTask) domain.ArrowSource {
	src := domain.ArrowSource{
		BarID:       barID,
		OperationID: op.OperationID,
		ProcedureID: op.ProcedureID,
	}
	if op.SchedulingReferenceOperationID != nil {
		src.ReferencedOperationID = *op.SchedulingReferenceOperationID
	}
	if len(op.SchedulingRelation) > 0 {
		src.SourceEdge = domain.Edge(op.SchedulingRelation[0])
	}
	if len(op.SchedulingRelation) > 1 {
		src.DestinationEdge = domain.Edge(op.SchedulingRelation[1])
	}
	return src
}

// assignDroppableRows points the procedure overlay bars on each equipment's
// last row at the last row of every equipment in the procedure's pool.
// Overlays on earlier rows get no targets. Unknown pool ids are skipped.
func assignDroppableRows(rows []domain.Row, s *fixture.Schedule, lastRow map[int]int) {
	pools := make(map[[2]int][]int)
	for _, e := range s.Equipment {
		for _, p := range e.ProcEntryTasks {
			var targets []int
			seen := make(map[int]bool)
			for _, id := range p.EquipmentPoolIDs {
				rowID, ok := lastRow[id]
				if !ok || seen[rowID] {
					continue
				}
				seen[rowID] = true
				targets = append(targets, rowID)
			}
			pools[[2]int{e.EquipmentID, p.ProcedureID}] = targets
		}
	}

	for ri := range rows {
		r := &rows[ri]
		if r.RowEntityType != domain.EntityEquipment || lastRow[r.RowEntityID] != r.ID {
			continue
		}
		for bi := range r.Bars {
			b := &r.Bars[bi]
			if !b.IsDraggable || b.BarEntityType != domain.EntityProcedure {
				continue
			}
			if targets, ok := pools[[2]int{r.RowEntityID, b.BarEntityID}]; ok {
				b.DroppableRowIDs = append([]int{}, targets...)
			}
		}
	}
}

func legend(s *fixture.Schedule, colorBy string) []domain.LegendItem {
	entries := s.Campaigns
	if colorBy == domain.ColorByBatch.Value {
		entries = s.Batches
	}
	items := make([]domain.LegendItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, domain.LegendItem{Name: e.Name, Color: color.IntToRGBA(e.Color)})
	}
	return items
}
