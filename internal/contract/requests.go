package contract

import (
	"time"

	"github.com/alexanderramin/ganttkit/internal/domain"
)

// TimeScaleRequest selects a time scale by name.
type TimeScaleRequest struct {
	Name string `json:"name"`
}

// ScaleRequest moves the view scale slider to Position.
type ScaleRequest struct {
	Position int `json:"position"`
}

// DetailLevelRequest selects a gantt detail level by id.
type DetailLevelRequest struct {
	ID int `json:"id"`
}

// ColorByRequest picks the scheduler color field, "campaignColor" or
// "batchColor".
type ColorByRequest struct {
	Value string `json:"value"`
}

// ScrollLeftRequest writes back the chart's horizontal scroll offset.
type ScrollLeftRequest struct {
	ScrollLeft int `json:"scrollLeft"`
}

// ClickRequest reports a bar click, a bar right-click or a row click.
// BarID is ignored for row clicks.
type ClickRequest struct {
	Kind  SelectionKind `json:"kind"`
	RowID int           `json:"rowId"`
	BarID int           `json:"barId"`
}

// DropRequest is the chart's drop callback payload.
type DropRequest = domain.DropInfo

// DropResponse reports an applied drop.
type DropResponse struct {
	Applied    bool        `json:"applied"`
	OffsetMin  int64       `json:"offsetMinutes"`
	Moved      int         `json:"moved"`
	RowChanged bool        `json:"rowChanged"`
	Props      *ChartProps `json:"props"`
}

// SessionResponse is returned when a page session is opened or fetched.
type SessionResponse struct {
	ID    string     `json:"id"`
	Page  string     `json:"page"`
	Props ChartProps `json:"props"`
}

// DropEvent is one entry of the drop log.
type DropEvent struct {
	ID           string            `json:"id"`
	Page         string            `json:"page"`
	SessionID    string            `json:"sessionId"`
	BarID        int               `json:"barId"`
	EntityType   domain.EntityType `json:"entityType"`
	EntityID     int               `json:"entityId"`
	InitialRowID int               `json:"initialRowId"`
	FinalRowID   int               `json:"finalRowId"`
	OffsetMin    int64             `json:"offsetMinutes"`
	RecordedAt   time.Time         `json:"recordedAt"`
}
