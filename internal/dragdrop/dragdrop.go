// Package dragdrop applies finished bar drags to the chart rows and to the
// scheduler fixture.
package dragdrop

import (
	"time"

	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/flatten"
)

// OffsetMode picks the reference point of a drop offset.
type OffsetMode int

const (
	// FromInitialPosition measures finalX - initialX.
	FromInitialPosition OffsetMode = iota
	// FromBarStart measures finalX - bar.startDate.
	FromBarStart
)

func (m OffsetMode) String() string {
	if m == FromBarStart {
		return "bar-start"
	}
	return "initial-position"
}

// Offset returns the time shift a drop implies under mode m.
func Offset(info domain.DropInfo, m OffsetMode) time.Duration {
	if m == FromBarStart {
		return info.FinalPositionX.Sub(info.Bar.StartDate)
	}
	return info.FinalPositionX.Sub(info.InitialPositionX)
}

// Result describes an applied drop.
type Result struct {
	Offset     time.Duration
	EntityType domain.EntityType
	EntityID   int
	// Moved counts the bars or tasks that were shifted.
	Moved int
	// RowChanged is set when the bars left their initial row.
	RowChanged bool
}

// ApplyToRows shifts the dropped bar and every bar of the initial row that
// shares its entity id. When the final row differs, those bars move there
// keeping their ids. It reports false, leaving rows untouched, when either
// row or the bar cannot be found.
func ApplyToRows(rows []domain.Row, info domain.DropInfo, mode OffsetMode) (Result, bool) {
	from := flatten.FindRow(rows, info.InitialRow.ID)
	to := flatten.FindRow(rows, info.FinalRow.ID)
	if from == nil || to == nil {
		return Result{}, false
	}
	if !hasBar(from.Bars, info.Bar.ID) {
		return Result{}, false
	}

	offset := Offset(info, mode)
	res := Result{
		Offset:     offset,
		EntityType: info.Bar.BarEntityType,
		EntityID:   info.Bar.BarEntityID,
		RowChanged: from.ID != to.ID,
	}

	if !res.RowChanged {
		for i := range from.Bars {
			if belongs(from.Bars[i], info.Bar) {
				shiftBar(&from.Bars[i], offset)
				res.Moved++
			}
		}
		return res, true
	}

	moved := []domain.Bar{}
	kept := []domain.Bar{}
	for _, b := range from.Bars {
		if belongs(b, info.Bar) {
			shiftBar(&b, offset)
			moved = append(moved, b)
			continue
		}
		kept = append(kept, b)
	}
	res.Moved = len(moved)
	from.Bars = kept
	to.Bars = append(to.Bars, moved...)
	return res, true
}

// belongs reports whether b is the dragged bar or one of its group.
func belongs(b, dragged domain.Bar) bool {
	return b.ID == dragged.ID || (dragged.BarEntityID != 0 && b.BarEntityID == dragged.BarEntityID)
}

func shiftBar(b *domain.Bar, d time.Duration) {
	b.StartDate = b.StartDate.Add(d)
	b.EndDate = b.EndDate.Add(d)
}

func hasBar(bars []domain.Bar, id int) bool {
	for _, b := range bars {
		if b.ID == id {
			return true
		}
	}
	return false
}
