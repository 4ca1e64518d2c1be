package contract

import "github.com/alexanderramin/ganttkit/internal/domain"

// ChartProps is everything the external chart component is handed for one
// render: the data contract plus the current UI state of the page.
type ChartProps struct {
	Page  string       `json:"page"`
	Title string       `json:"title"`
	Phase domain.Phase `json:"phase"`

	Data      domain.ChartData `json:"data"`
	Columns   []domain.Column  `json:"columns"`
	Widths    domain.WidthInfo `json:"widths"`
	RowStatus domain.RowStatus `json:"rowStatus"`
	MaxHeight int              `json:"maxHeight"`

	ScrollLeft    int    `json:"scrollLeft"`
	ScaleValue    int    `json:"scaleValue"`
	ScaleText     string `json:"scaleText"`
	ScalePosition int    `json:"scalePosition"`
	ScaleMin      int    `json:"scaleMin"`
	ScaleMax      int    `json:"scaleMax"`
	ScaleLocked   bool   `json:"scaleLocked"`

	TimeScale       domain.TimeScale `json:"timeScale"`
	AutoTimeScale   bool             `json:"autoTimeScale"`
	TimeScaleToggle ToggleView       `json:"timeScaleToggle"`

	ShowPrimaryGridlines   bool `json:"showPrimaryGridlines"`
	ShowSecondaryGridlines bool `json:"showSecondaryGridlines"`
	ShowRelativeTime       bool `json:"showRelativeTime"`
	ShowArrows             bool `json:"showArrows"`
	ShowOverlay            bool `json:"showOverlay"`
	ShowChartLegend        bool `json:"showChartLegend"`

	ColorBy    string              `json:"colorBy,omitempty"`
	Legend     []domain.LegendItem `json:"legend"`
	ChartClass string              `json:"chartClass"`

	Options   PageOptions `json:"options"`
	Selection *Selection  `json:"selection,omitempty"`
}

// ToggleView is the page-specific rendering of the auto time scale switch.
// "Lock time scale" pages show the inverse of the stored flag.
type ToggleView struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// PageOptions lists the selectable values a page offers.
type PageOptions struct {
	Toggles      []string             `json:"toggles"`
	TimeScales   []domain.TimeScale   `json:"timeScales"`
	DetailLevels []domain.DetailLevel `json:"detailLevels,omitempty"`
	ColorBy      []domain.ColorBy     `json:"colorBy,omitempty"`
}

// SelectionKind says how the current selection was made.
type SelectionKind string

const (
	SelectBar        SelectionKind = "bar"
	SelectBarContext SelectionKind = "bar-context"
	SelectRow        SelectionKind = "row"
)

// Selection is the last clicked bar or row.
type Selection struct {
	Kind  SelectionKind `json:"kind"`
	RowID int           `json:"rowId,omitempty"`
	BarID int           `json:"barId,omitempty"`
	// Text is the bar text or first grid value, for display.
	Text string `json:"text,omitempty"`
}

// PageInfo describes one registered page.
type PageInfo struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	StorageKey string `json:"storageKey"`
	Dataset    string `json:"dataset"`
}
