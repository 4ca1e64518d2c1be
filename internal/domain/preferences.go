package domain

// Preferences is the UI preference set a page persists between sessions.
type Preferences struct {
	TimeScale              TimeScale `json:"timeScale"`
	AutoTimeScale          bool      `json:"autoTimeScale"`
	Zoom                   int       `json:"zoom"`
	ScalePosition          int       `json:"scalePosition"`
	ShowRelativeTime       bool      `json:"showRelativeTime"`
	ShowPrimaryGridlines   bool      `json:"showPrimaryGridlines"`
	ShowSecondaryGridlines bool      `json:"showSecondaryGridlines"`
	ShowArrows             bool      `json:"showArrows"`
	ShowOverlay            bool      `json:"showOverlay"`
	ShowChartLegend        bool      `json:"showChartLegend"`
	ColorBy                string    `json:"colorBy"`
	ColumnWidths           []int     `json:"columnWidths"`
	GridWidth              int       `json:"gridWidth"`
	ScrollLeft             int       `json:"scrollLeft"`
	RowStatus              RowStatus `json:"rowStatus"`
}

// PreferencesPatch is a stored preference blob. Every field is optional; a
// nil field means the value was never saved.
type PreferencesPatch struct {
	TimeScale              *TimeScale `json:"timeScale,omitempty"`
	AutoTimeScale          *bool      `json:"autoTimeScale,omitempty"`
	Zoom                   *int       `json:"zoom,omitempty"`
	ScalePosition          *int       `json:"scalePosition,omitempty"`
	ShowRelativeTime       *bool      `json:"showRelativeTime,omitempty"`
	ShowPrimaryGridlines   *bool      `json:"showPrimaryGridlines,omitempty"`
	ShowSecondaryGridlines *bool      `json:"showSecondaryGridlines,omitempty"`
	ShowArrows             *bool      `json:"showArrows,omitempty"`
	ShowOverlay            *bool      `json:"showOverlay,omitempty"`
	ShowChartLegend        *bool      `json:"showChartLegend,omitempty"`
	ColorBy                *string    `json:"colorBy,omitempty"`
	ColumnWidths           []int      `json:"columnWidths,omitempty"`
	GridWidth              *int       `json:"gridWidth,omitempty"`
	ScrollLeft             *int       `json:"scrollLeft,omitempty"`
	RowStatus              RowStatus  `json:"rowStatus,omitempty"`
}

// Merge overlays the fields present in patch onto p. A nil patch returns p
// unchanged.
func (p Preferences) Merge(patch *PreferencesPatch) Preferences {
	if patch == nil {
		return p
	}
	if patch.TimeScale != nil && patch.TimeScale.Name != "" {
		p.TimeScale = *patch.TimeScale
	}
	p.AutoTimeScale = ValueOr(p.AutoTimeScale, patch.AutoTimeScale)
	p.Zoom = ValueOr(p.Zoom, patch.Zoom)
	p.ScalePosition = ValueOr(p.ScalePosition, patch.ScalePosition)
	p.ShowRelativeTime = ValueOr(p.ShowRelativeTime, patch.ShowRelativeTime)
	p.ShowPrimaryGridlines = ValueOr(p.ShowPrimaryGridlines, patch.ShowPrimaryGridlines)
	p.ShowSecondaryGridlines = ValueOr(p.ShowSecondaryGridlines, patch.ShowSecondaryGridlines)
	p.ShowArrows = ValueOr(p.ShowArrows, patch.ShowArrows)
	p.ShowOverlay = ValueOr(p.ShowOverlay, patch.ShowOverlay)
	p.ShowChartLegend = ValueOr(p.ShowChartLegend, patch.ShowChartLegend)
	p.ColorBy = ValueOr(p.ColorBy, patch.ColorBy)
	p.GridWidth = ValueOr(p.GridWidth, patch.GridWidth)
	p.ScrollLeft = ValueOr(p.ScrollLeft, patch.ScrollLeft)
	if patch.ColumnWidths != nil {
		p.ColumnWidths = append([]int(nil), patch.ColumnWidths...)
	}
	if patch.RowStatus != nil {
		p.RowStatus = patch.RowStatus.Clone()
	}
	return p
}

// Patch returns p as a fully populated patch, the shape that gets stored.
func (p Preferences) Patch() *PreferencesPatch {
	ts := p.TimeScale
	return &PreferencesPatch{
		TimeScale:              &ts,
		AutoTimeScale:          &p.AutoTimeScale,
		Zoom:                   &p.Zoom,
		ScalePosition:          &p.ScalePosition,
		ShowRelativeTime:       &p.ShowRelativeTime,
		ShowPrimaryGridlines:   &p.ShowPrimaryGridlines,
		ShowSecondaryGridlines: &p.ShowSecondaryGridlines,
		ShowArrows:             &p.ShowArrows,
		ShowOverlay:            &p.ShowOverlay,
		ShowChartLegend:        &p.ShowChartLegend,
		ColorBy:                &p.ColorBy,
		ColumnWidths:           append([]int{}, p.ColumnWidths...),
		GridWidth:              &p.GridWidth,
		ScrollLeft:             &p.ScrollLeft,
		RowStatus:              p.RowStatus.Clone(),
	}
}

// Clone returns an independent copy of s. Cloning nil yields an empty map.
func (s RowStatus) Clone() RowStatus {
	out := make(RowStatus, len(s))
	for id, st := range s {
		out[id] = st
	}
	return out
}

// ValueOr returns *ptr when ptr is non-nil, otherwise fallback.
func ValueOr[T any](fallback T, ptr *T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}
