package dragdrop

import (
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/fixture"
)

// ApplyToSchedule folds a scheduler drop into the fixture. The offset is
// always measured from the bar start.
//
// Procedure bars move their task, deep-copied and shifted, from the
// equipment of the initial row to the equipment of the final row. The copy
// lands on row 1 with its conflicts cleared, and both equipments get their
// rowsRequired recomputed. Any other bar shifts every equipment stand-alone
// operation with the bar's entity id. A failed lookup reports false and
// leaves the fixture untouched.
func ApplyToSchedule(s *fixture.Schedule, info domain.DropInfo) (Result, bool) {
	offset := Offset(info, FromBarStart)
	res := Result{
		Offset:     offset,
		EntityType: info.Bar.BarEntityType,
		EntityID:   info.Bar.BarEntityID,
		RowChanged: info.InitialRow.ID != info.FinalRow.ID,
	}

	if info.Bar.BarEntityType == domain.EntityProcedure {
		if !moveProcedure(s, info) {
			return Result{}, false
		}
		res.Moved = 1
		return res, true
	}

	for ei := range s.Equipment {
		ops := s.Equipment[ei].OpEntryTasks
		for oi := range ops {
			if ops[oi].OperationID == info.Bar.BarEntityID {
				ops[oi] = ops[oi].Shifted(offset)
				res.Moved++
			}
		}
	}
	return res, true
}

func moveProcedure(s *fixture.Schedule, info domain.DropInfo) bool {
	src := s.FindEquipment(info.InitialRow.RowEntityID)
	if src == nil {
		return false
	}
	idx := -1
	for i, p := range src.ProcEntryTasks {
		if p.ProcedureID == info.Bar.BarEntityID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	dst := s.FindEquipment(info.FinalRow.RowEntityID)
	if dst == nil {
		return false
	}

	moved := src.ProcEntryTasks[idx].Shifted(Offset(info, FromBarStart))
	one := 1
	moved.Row = &one
	moved.ConflictIndexes = []int{}
	for i := range moved.OpEntryTasks {
		r := 1
		moved.OpEntryTasks[i].Row = &r
	}

	dst.ProcEntryTasks = append(dst.ProcEntryTasks, moved)
	normalizeRows(dst)

	// src and dst may be the same equipment; the appended copy sits after idx.
	src.ProcEntryTasks = append(src.ProcEntryTasks[:idx], src.ProcEntryTasks[idx+1:]...)
	normalizeRows(src)
	return true
}

// normalizeRows sets rowsRequired to the highest task row, at least 1.
func normalizeRows(e *fixture.Equipment) {
	rows := 1
	for _, p := range e.ProcEntryTasks {
		if r := fixture.RowOrDefault(p.Row); r > rows {
			rows = r
		}
	}
	e.RowsRequired = &rows
}
