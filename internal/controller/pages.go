package controller

import (
	"sort"

	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/dragdrop"
	"github.com/alexanderramin/ganttkit/internal/format"
)

// DatasetKind selects the fixture shape and flattener a page uses.
type DatasetKind string

const (
	DatasetGantt    DatasetKind = "gantt"
	DatasetSchedule DatasetKind = "schedule"
)

// Toggle names a boolean page switch.
type Toggle string

const (
	TogglePrimaryGridlines   Toggle = "primary-gridlines"
	ToggleSecondaryGridlines Toggle = "secondary-gridlines"
	ToggleRelativeTime       Toggle = "relative-time"
	ToggleArrows             Toggle = "arrows"
	ToggleOverlay            Toggle = "overlay"
	ToggleLegend             Toggle = "legend"
	ToggleAutoTimeScale      Toggle = "auto-time-scale"
)

// TimeScaleToggle configures how a page labels the auto time scale switch.
// Inverted pages show "lock" semantics: checked means auto is off.
type TimeScaleToggle struct {
	Label    string
	Inverted bool
}

// PageConfig is everything that distinguishes one chart page from another.
type PageConfig struct {
	Name        string
	Title       string
	StorageKey  string
	FixtureName string
	Dataset     DatasetKind

	Columns      []domain.Column
	MaxHeight    int
	DetailLevels []domain.DetailLevel
	ColorBy      []domain.ColorBy
	TimeScales   []domain.TimeScale
	Toggles      []Toggle
	Defaults     domain.Preferences

	Scale     format.ScaleMapping
	ScaleText func(value int) string
	// ScaleLockedByAuto ignores scale changes while auto time scale is on.
	ScaleLockedByAuto bool

	DropOffset      dragdrop.OffsetMode
	TimeScaleToggle TimeScaleToggle
}

// Supports reports whether the page offers toggle t.
func (c PageConfig) Supports(t Toggle) bool {
	for _, have := range c.Toggles {
		if have == t {
			return true
		}
	}
	return false
}

func ganttColumns() []domain.Column {
	return []domain.Column{
		{Text: "Task Name", MinWidth: 100, DefaultWidth: 100},
		{Text: "Start", MinWidth: 100, DefaultWidth: 100},
		{Text: "End", MinWidth: 100, DefaultWidth: 100},
		{Text: "Duration", MinWidth: 100, DefaultWidth: 100},
	}
}

func ganttDetailLevels() []domain.DetailLevel {
	return []domain.DetailLevel{
		{ID: 1, Name: domain.EntityCampaign, Enabled: true},
		{ID: 2, Name: domain.EntityBatch, Enabled: true},
		{ID: 3, Name: domain.EntityProcedure, Enabled: true},
		{ID: 4, Name: domain.EntityOperation, Enabled: true},
	}
}

var ganttToggles = []Toggle{
	TogglePrimaryGridlines,
	ToggleSecondaryGridlines,
	ToggleRelativeTime,
	ToggleAutoTimeScale,
}

// GanttPage is the campaign tree page with a linear zoom slider.
func GanttPage() PageConfig {
	return PageConfig{
		Name:         "gantt",
		Title:        "Gantt",
		StorageKey:   "GanttApp",
		FixtureName:  "gantt",
		Dataset:      DatasetGantt,
		Columns:      ganttColumns(),
		MaxHeight:    780,
		DetailLevels: ganttDetailLevels(),
		TimeScales:   append([]domain.TimeScale(nil), domain.TimeScales...),
		Toggles:      ganttToggles,
		Defaults: domain.Preferences{
			TimeScale:     domain.TimeScaleWeekDay,
			AutoTimeScale: true,
			Zoom:          1,
			ScalePosition: 1,
			GridWidth:     400,
			RowStatus:     domain.RowStatus{},
		},
		Scale:           format.LinearScale{Min: 1, Max: 100},
		ScaleText:       format.Percent,
		DropOffset:      dragdrop.FromInitialPosition,
		TimeScaleToggle: TimeScaleToggle{Label: "Lock time scale", Inverted: true},
	}
}

// GanttLargePage is the generated large tree with a 0..100 view scale.
func GanttLargePage() PageConfig {
	return PageConfig{
		Name:         "gantt-large",
		Title:        "Gantt (large)",
		StorageKey:   "GanttLargeApp",
		FixtureName:  "gantt-large",
		Dataset:      DatasetGantt,
		Columns:      ganttColumns(),
		MaxHeight:    780,
		DetailLevels: ganttDetailLevels(),
		TimeScales:   append([]domain.TimeScale(nil), domain.TimeScales...),
		Toggles:      ganttToggles,
		Defaults: domain.Preferences{
			TimeScale:     domain.TimeScaleWeekDay,
			AutoTimeScale: true,
			GridWidth:     400,
			RowStatus:     domain.RowStatus{},
		},
		Scale:           format.LinearScale{Min: 0, Max: 100},
		ScaleText:       format.Percent,
		DropOffset:      dragdrop.FromInitialPosition,
		TimeScaleToggle: TimeScaleToggle{Label: "Auto time scale"},
	}
}

// SchedulerPage is the equipment/staff page with a logarithmic view scale.
func SchedulerPage() PageConfig {
	return PageConfig{
		Name:        "scheduler",
		Title:       "Scheduler",
		StorageKey:  "SchedulerApp",
		FixtureName: "scheduler",
		Dataset:     DatasetSchedule,
		Columns:     []domain.Column{{Text: "Equipment/Staff", MinWidth: 100, DefaultWidth: 100}},
		MaxHeight:   600,
		ColorBy:     []domain.ColorBy{domain.ColorByCampaign, domain.ColorByBatch},
		TimeScales:  append([]domain.TimeScale(nil), domain.TimeScales...),
		Toggles: []Toggle{
			TogglePrimaryGridlines,
			ToggleSecondaryGridlines,
			ToggleRelativeTime,
			ToggleArrows,
			ToggleOverlay,
			ToggleLegend,
			ToggleAutoTimeScale,
		},
		Defaults: domain.Preferences{
			TimeScale:     domain.TimeScaleWeekDay,
			AutoTimeScale: true,
			Zoom:          100,
			GridWidth:     500,
			ColorBy:       domain.ColorByCampaign.Value,
			RowStatus:     domain.RowStatus{},
		},
		Scale:             format.DefaultLogScale,
		ScaleText:         format.ViewScaleText,
		ScaleLockedByAuto: true,
		DropOffset:        dragdrop.FromBarStart,
		TimeScaleToggle:   TimeScaleToggle{Label: "Fit to window"},
	}
}

// Registry holds the known pages by name.
type Registry struct {
	pages map[string]PageConfig
}

// NewRegistry registers pages; later duplicates replace earlier ones.
func NewRegistry(pages ...PageConfig) *Registry {
	r := &Registry{pages: make(map[string]PageConfig, len(pages))}
	for _, p := range pages {
		r.pages[p.Name] = p
	}
	return r
}

// DefaultRegistry holds the three built-in pages.
func DefaultRegistry() *Registry {
	return NewRegistry(GanttPage(), GanttLargePage(), SchedulerPage())
}

func (r *Registry) Lookup(name string) (PageConfig, bool) {
	p, ok := r.pages[name]
	return p, ok
}

// Names returns the page names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pages))
	for n := range r.pages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Pages returns the configs sorted by name.
func (r *Registry) Pages() []PageConfig {
	out := make([]PageConfig, 0, len(r.pages))
	for _, n := range r.Names() {
		out = append(out, r.pages[n])
	}
	return out
}
