package testutil

import (
	"sync/atomic"
	"time"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/domain"
)

var dropSeq atomic.Int64

// BaseTime is the fixed clock used by persistence tests.
var BaseTime = time.Date(2024, 3, 4, 6, 0, 0, 0, time.UTC)

type DropOption func(*contract.DropEvent)

func WithSession(id string) DropOption {
	return func(e *contract.DropEvent) { e.SessionID = id }
}

func WithOffset(minutes int64) DropOption {
	return func(e *contract.DropEvent) { e.OffsetMin = minutes }
}

func WithRecordedAt(t time.Time) DropOption {
	return func(e *contract.DropEvent) { e.RecordedAt = t }
}

// NewTestDropEvent builds a procedure drop on page. Successive events are
// recorded one minute apart after BaseTime.
func NewTestDropEvent(page string, opts ...DropOption) *contract.DropEvent {
	n := dropSeq.Add(1)
	e := &contract.DropEvent{
		Page:         page,
		BarID:        int(n),
		EntityType:   domain.EntityProcedure,
		EntityID:     10,
		InitialRowID: 1,
		FinalRowID:   3,
		OffsetMin:    60,
		RecordedAt:   BaseTime.Add(time.Duration(n) * time.Minute),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewTestPatch is a partial preference blob touching a few fields.
func NewTestPatch(zoom int, relative bool) *domain.PreferencesPatch {
	ts := domain.TimeScaleDayHour
	return &domain.PreferencesPatch{
		TimeScale:        &ts,
		Zoom:             &zoom,
		ShowRelativeTime: &relative,
		RowStatus:        domain.RowStatus{2: {IsExpanded: true}},
	}
}
