// Package controller holds the per-page chart state: the loaded dataset,
// the UI preferences, and the handlers the chart calls back into.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/ganttkit/internal/arrows"
	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/dragdrop"
	"github.com/alexanderramin/ganttkit/internal/fixture"
	"github.com/alexanderramin/ganttkit/internal/flatten"
)

var (
	ErrUnsupportedToggle = errors.New("toggle not supported by page")
	ErrNotLoaded         = errors.New("page not loaded")
)

// PreferenceStore persists one preference blob per storage key. Load
// returns a nil patch when nothing is stored.
type PreferenceStore interface {
	Load(ctx context.Context, key string) (*domain.PreferencesPatch, error)
	Save(ctx context.Context, key string, patch *domain.PreferencesPatch) error
}

// Controller is the state of one open page. It is not safe for concurrent
// use; callers serialise access.
type Controller struct {
	cfg    PageConfig
	src    fixture.Source
	store  PreferenceStore
	logger *slog.Logger

	phase  domain.Phase
	data   dataset
	prefs  domain.Preferences
	view   view
	arrows []domain.Arrow
	sel    *contract.Selection
}

// New builds a controller for cfg and merges any stored preferences over
// the page defaults. A missing or unreadable blob leaves the defaults.
func New(ctx context.Context, cfg PageConfig, src fixture.Source, store PreferenceStore, logger *slog.Logger) (*Controller, error) {
	ds, err := newDataset(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		cfg:    cfg,
		src:    src,
		store:  store,
		logger: logger.With("page", cfg.Name),
		phase:  domain.PhaseLoading,
		data:   ds,
		prefs:  cfg.Defaults.Merge(nil),
	}
	c.prefs.RowStatus = c.prefs.RowStatus.Clone()

	if store != nil {
		patch, err := store.Load(ctx, cfg.StorageKey)
		if err != nil {
			c.logger.WarnContext(ctx, "stored preferences ignored", "key", cfg.StorageKey, "error", err)
		} else {
			c.prefs = c.prefs.Merge(patch)
		}
	}
	return c, nil
}

// Config returns the page configuration the controller was built with.
func (c *Controller) Config() PageConfig { return c.cfg }

// Phase reports whether the page data is still loading.
func (c *Controller) Phase() domain.Phase { return c.phase }

// Preferences returns a copy of the current preference set.
func (c *Controller) Preferences() domain.Preferences {
	return c.prefs.Merge(c.prefs.Patch())
}

// Load reads and flattens the fixture and marks the page loaded. It runs
// once; later calls are no-ops.
func (c *Controller) Load(ctx context.Context) error {
	if c.phase == domain.PhaseLoaded {
		return nil
	}
	if err := c.loadDataset(ctx); err != nil {
		return err
	}
	c.phase = domain.PhaseLoaded
	c.logger.InfoContext(ctx, "page loaded", "rows", flatten.CountRows(c.view.rows))
	return nil
}

// Reload re-reads the fixture of a loaded page, keeping preferences.
func (c *Controller) Reload(ctx context.Context) error {
	if c.phase != domain.PhaseLoaded {
		return ErrNotLoaded
	}
	ds, err := newDataset(c.cfg.Dataset)
	if err != nil {
		return err
	}
	old := c.data
	c.data = ds
	if err := c.loadDataset(ctx); err != nil {
		c.data = old
		return err
	}
	c.sel = nil
	return nil
}

func (c *Controller) loadDataset(ctx context.Context) error {
	problems, err := c.data.load(ctx, c.src, c.cfg.FixtureName)
	if err != nil {
		return fmt.Errorf("loading %s fixture: %w", c.cfg.Name, err)
	}
	for _, p := range problems {
		c.logger.WarnContext(ctx, "fixture problem", "fixture", c.cfg.FixtureName, "problem", p.Error())
	}
	c.reflatten()
	return nil
}

func (c *Controller) loaded() bool { return c.phase == domain.PhaseLoaded }

func (c *Controller) reflatten() {
	c.view = c.data.flatten(c.prefs)
	c.rebuildArrows()
}

func (c *Controller) rebuildArrows() {
	if c.prefs.ShowArrows && c.cfg.Supports(ToggleArrows) {
		c.arrows = arrows.Build(c.view.sources)
		return
	}
	c.arrows = []domain.Arrow{}
}

// Toggle flips one boolean switch. Toggles that change display text
// re-flatten the dataset.
func (c *Controller) Toggle(t Toggle) error {
	if !c.cfg.Supports(t) {
		return fmt.Errorf("%s: %w", t, ErrUnsupportedToggle)
	}
	if !c.loaded() {
		return nil
	}
	switch t {
	case TogglePrimaryGridlines:
		c.prefs.ShowPrimaryGridlines = !c.prefs.ShowPrimaryGridlines
	case ToggleSecondaryGridlines:
		c.prefs.ShowSecondaryGridlines = !c.prefs.ShowSecondaryGridlines
	case ToggleRelativeTime:
		c.prefs.ShowRelativeTime = !c.prefs.ShowRelativeTime
		c.reflatten()
	case ToggleArrows:
		c.prefs.ShowArrows = !c.prefs.ShowArrows
		c.rebuildArrows()
	case ToggleOverlay:
		c.prefs.ShowOverlay = !c.prefs.ShowOverlay
		c.reflatten()
	case ToggleLegend:
		c.prefs.ShowChartLegend = !c.prefs.ShowChartLegend
	case ToggleAutoTimeScale:
		c.prefs.AutoTimeScale = !c.prefs.AutoTimeScale
	}
	return nil
}

// SelectTimeScale picks a time scale by name. Unknown names, and changes
// while the chart picks the scale itself, are ignored.
func (c *Controller) SelectTimeScale(name string) bool {
	if !c.loaded() || c.prefs.AutoTimeScale {
		return false
	}
	for _, ts := range c.cfg.TimeScales {
		if ts.Name == name {
			c.prefs.TimeScale = ts
			return true
		}
	}
	return false
}

// SetScalePosition moves the scale slider. The value handed to the chart is
// the position mapped through the page's scale.
func (c *Controller) SetScalePosition(position int) bool {
	if !c.loaded() || (c.cfg.ScaleLockedByAuto && c.prefs.AutoTimeScale) {
		return false
	}
	lo, hi := c.cfg.Scale.Bounds()
	if position < lo {
		position = lo
	}
	if position > hi {
		position = hi
	}
	value := c.cfg.Scale.Value(position)
	if value == c.prefs.Zoom && position == c.prefs.ScalePosition {
		return false
	}
	c.prefs.ScalePosition = position
	c.prefs.Zoom = value
	return true
}

// SelectDetailLevel expands the rows above the chosen depth. Unknown or
// disabled levels are ignored.
func (c *Controller) SelectDetailLevel(id int) bool {
	if !c.loaded() {
		return false
	}
	for _, l := range c.cfg.DetailLevels {
		if l.ID == id && l.Enabled {
			c.prefs.RowStatus = flatten.RowStatusForDetailLevel(c.view.rows, c.cfg.DetailLevels, l)
			return true
		}
	}
	return false
}

// SelectColorBy switches the color field and re-flattens.
func (c *Controller) SelectColorBy(value string) bool {
	if !c.loaded() || value == c.prefs.ColorBy {
		return false
	}
	for _, cb := range c.cfg.ColorBy {
		if cb.Value == value {
			c.prefs.ColorBy = value
			c.reflatten()
			return true
		}
	}
	return false
}

// UpdateWidths records the grid widths reported by the chart.
func (c *Controller) UpdateWidths(w domain.WidthInfo) {
	c.prefs.ColumnWidths = append([]int(nil), w.ColumnWidths...)
	c.prefs.GridWidth = w.GridWidth
}

// UpdateRowStatus records the expand state reported by the chart.
func (c *Controller) UpdateRowStatus(s domain.RowStatus) {
	c.prefs.RowStatus = s.Clone()
}

func (c *Controller) UpdateScrollLeft(x int) {
	c.prefs.ScrollLeft = x
}

// HandleBarDrop applies a finished drag.
func (c *Controller) HandleBarDrop(ctx context.Context, info domain.DropInfo) (dragdrop.Result, bool) {
	if !c.loaded() {
		return dragdrop.Result{}, false
	}
	res, ok := c.data.drop(c.view.rows, info, c.cfg.DropOffset)
	if !ok {
		c.logger.DebugContext(ctx, "drop ignored", "bar", info.Bar.ID, "initial_row", info.InitialRow.ID, "final_row", info.FinalRow.ID)
		return res, false
	}
	c.reflatten()
	c.logger.InfoContext(ctx, "drop applied",
		"bar", info.Bar.ID,
		"entity_type", string(res.EntityType),
		"entity_id", res.EntityID,
		"offset", res.Offset.String(),
		"moved", res.Moved,
	)
	return res, true
}

// HandleBarClick selects the bar.
func (c *Controller) HandleBarClick(rowID, barID int) bool {
	return c.selectBar(contract.SelectBar, rowID, barID)
}

// HandleBarRightClick selects the bar for a context action.
func (c *Controller) HandleBarRightClick(rowID, barID int) bool {
	return c.selectBar(contract.SelectBarContext, rowID, barID)
}

// HandleRowClick selects the row.
func (c *Controller) HandleRowClick(rowID int) bool {
	if !c.loaded() {
		return false
	}
	r := flatten.FindRow(c.view.rows, rowID)
	if r == nil {
		return false
	}
	text := ""
	if len(r.GridValues) > 0 {
		text = r.GridValues[0]
	}
	c.sel = &contract.Selection{Kind: contract.SelectRow, RowID: rowID, Text: text}
	return true
}

func (c *Controller) selectBar(kind contract.SelectionKind, rowID, barID int) bool {
	if !c.loaded() {
		return false
	}
	r := flatten.FindRow(c.view.rows, rowID)
	if r == nil {
		return false
	}
	for _, b := range r.Bars {
		if b.ID == barID {
			c.sel = &contract.Selection{Kind: kind, RowID: rowID, BarID: barID, Text: b.Text}
			return true
		}
	}
	return false
}

// Selection returns the last click target, or nil.
func (c *Controller) Selection() *contract.Selection {
	if c.sel == nil {
		return nil
	}
	s := *c.sel
	return &s
}

// Rows returns the current flattened rows. The slice is shared.
func (c *Controller) Rows() []domain.Row { return c.view.rows }

// Props assembles the chart contract for the current state.
func (c *Controller) Props() contract.ChartProps {
	p := c.prefs
	lo, hi := c.cfg.Scale.Bounds()

	rows := c.view.rows
	if rows == nil {
		rows = []domain.Row{}
	}
	chartArrows := c.arrows
	if chartArrows == nil {
		chartArrows = []domain.Arrow{}
	}
	legend := c.view.legend
	if legend == nil {
		legend = []domain.LegendItem{}
	}

	scaleText := ""
	if c.cfg.ScaleText != nil {
		scaleText = c.cfg.ScaleText(p.Zoom)
	}

	chartClass := "gantt-chart-without-legend"
	if p.ShowChartLegend {
		chartClass = "gantt-chart"
	}

	toggles := make([]string, 0, len(c.cfg.Toggles))
	for _, t := range c.cfg.Toggles {
		toggles = append(toggles, string(t))
	}

	return contract.ChartProps{
		Page:      c.cfg.Name,
		Title:     c.cfg.Title,
		Phase:     c.phase,
		Data:      domain.ChartData{Rows: rows, Arrows: chartArrows},
		Columns:   append([]domain.Column(nil), c.cfg.Columns...),
		Widths:    domain.WidthInfo{ColumnWidths: append([]int{}, p.ColumnWidths...), GridWidth: p.GridWidth},
		RowStatus: p.RowStatus.Clone(),
		MaxHeight: c.cfg.MaxHeight,

		ScrollLeft:    p.ScrollLeft,
		ScaleValue:    p.Zoom,
		ScaleText:     scaleText,
		ScalePosition: p.ScalePosition,
		ScaleMin:      lo,
		ScaleMax:      hi,
		ScaleLocked:   c.cfg.ScaleLockedByAuto && p.AutoTimeScale,

		TimeScale:     p.TimeScale,
		AutoTimeScale: p.AutoTimeScale,
		TimeScaleToggle: contract.ToggleView{
			Label:   c.cfg.TimeScaleToggle.Label,
			Checked: p.AutoTimeScale != c.cfg.TimeScaleToggle.Inverted,
		},

		ShowPrimaryGridlines:   p.ShowPrimaryGridlines,
		ShowSecondaryGridlines: p.ShowSecondaryGridlines,
		ShowRelativeTime:       p.ShowRelativeTime,
		ShowArrows:             p.ShowArrows,
		ShowOverlay:            p.ShowOverlay,
		ShowChartLegend:        p.ShowChartLegend,

		ColorBy:    p.ColorBy,
		Legend:     legend,
		ChartClass: chartClass,

		Options: contract.PageOptions{
			Toggles:      toggles,
			TimeScales:   append([]domain.TimeScale(nil), c.cfg.TimeScales...),
			DetailLevels: append([]domain.DetailLevel(nil), c.cfg.DetailLevels...),
			ColorBy:      append([]domain.ColorBy(nil), c.cfg.ColorBy...),
		},
		Selection: c.Selection(),
	}
}

// Unload saves the preferences under the page's storage key. Failures are
// logged and returned; nothing is retried.
func (c *Controller) Unload(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(ctx, c.cfg.StorageKey, c.prefs.Patch()); err != nil {
		c.logger.ErrorContext(ctx, "saving preferences failed", "key", c.cfg.StorageKey, "error", err)
		return fmt.Errorf("saving %s preferences: %w", c.cfg.Name, err)
	}
	return nil
}
