package flatten

import (
	"strings"

	"github.com/alexanderramin/ganttkit/internal/domain"
)

// WalkRows visits rows in pre-order. The callback receives a pointer into
// the slice so it may edit the row in place; returning false stops the walk.
func WalkRows(rows []domain.Row, fn func(r *domain.Row, depth int) bool) {
	walkRows(rows, 0, fn)
}

func walkRows(rows []domain.Row, depth int, fn func(*domain.Row, int) bool) bool {
	for i := range rows {
		if !fn(&rows[i], depth) {
			return false
		}
		if !walkRows(rows[i].ChildRows, depth+1, fn) {
			return false
		}
	}
	return true
}

// CountRows returns the number of rows including all descendants.
func CountRows(rows []domain.Row) int {
	n := 0
	WalkRows(rows, func(*domain.Row, int) bool {
		n++
		return true
	})
	return n
}

// FindRow returns the row with the given id, or nil.
func FindRow(rows []domain.Row, id int) *domain.Row {
	var found *domain.Row
	WalkRows(rows, func(r *domain.Row, _ int) bool {
		if r.ID == id {
			found = r
			return false
		}
		return true
	})
	return found
}

// RowStatusForDetailLevel expands every row whose entity type belongs to a
// level below selected and collapses the rest.
func RowStatusForDetailLevel(rows []domain.Row, levels []domain.DetailLevel, selected domain.DetailLevel) domain.RowStatus {
	var expanded []domain.EntityType
	for _, l := range levels {
		if l.ID < selected.ID {
			expanded = append(expanded, l.Name)
		}
	}

	status := make(domain.RowStatus)
	WalkRows(rows, func(r *domain.Row, _ int) bool {
		open := false
		for _, t := range expanded {
			if strings.EqualFold(string(t), string(r.RowEntityType)) {
				open = true
				break
			}
		}
		status[r.ID] = domain.RowState{IsExpanded: open}
		return true
	})
	return status
}
