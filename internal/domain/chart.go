package domain

import "time"

// Row is one horizontal track of the chart. ChildRows is never nil so that
// it encodes as an empty list for leaf rows.
type Row struct {
	ID            int        `json:"id"`
	Bars          []Bar      `json:"bars"`
	GridValues    []string   `json:"gridValues"`
	ChildRows     []Row      `json:"childRows"`
	RowEntityType EntityType `json:"rowEntityType"`
	RowEntityID   int        `json:"rowEntityId"`
}

// Bar is one time interval drawn inside a Row. BarEntityID groups bars that
// represent the same domain entity (an operation and its break segments).
type Bar struct {
	ID              int        `json:"id"`
	Text            string     `json:"text"`
	Type            BarType    `json:"type"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         time.Time  `json:"endDate"`
	BarStyle        BarStyle   `json:"barStyle"`
	IsDraggable     bool       `json:"isDraggable,omitempty"`
	BarEntityType   EntityType `json:"barEntityType"`
	BarEntityID     int        `json:"barEntityId"`
	DroppableRowIDs []int      `json:"droppableRowIds,omitempty"`
	ProcedureName   string     `json:"procedureName,omitempty"`
}

// BarStyle carries the css-like style properties understood by the chart.
type BarStyle struct {
	BorderWidth     int    `json:"borderWidth"`
	BorderStyle     string `json:"borderStyle"`
	BorderColor     string `json:"borderColor"`
	BorderRadius    string `json:"borderRadius"`
	BackgroundColor string `json:"backgroundColor"`
	Color           string `json:"color,omitempty"`
}

// Arrow is a dependency link between two bars.
type Arrow struct {
	SourceBarID      int  `json:"sourceBarId"`
	SourceEdge       Edge `json:"sourceEdge"`
	DestinationBarID int  `json:"destinationBarId"`
	DestinationEdge  Edge `json:"destinationEdge"`
}

// ArrowSource is the raw per-operation record emitted next to the operation
// bars during flattening. ReferencedOperationID is zero when the operation
// has no scheduling reference.
type ArrowSource struct {
	BarID                 int
	OperationID           int
	ProcedureID           int
	ReferencedOperationID int
	SourceEdge            Edge
	DestinationEdge       Edge
}

// ChartData is the {rows, arrows} contract consumed by the chart component.
type ChartData struct {
	Rows   []Row   `json:"rows"`
	Arrows []Arrow `json:"arrows"`
}

// DropInfo describes a finished drag of a bar.
type DropInfo struct {
	Bar              Bar       `json:"bar"`
	InitialRow       Row       `json:"initialRow"`
	FinalRow         Row       `json:"finalRow"`
	InitialPositionX time.Time `json:"initialPositionX"`
	FinalPositionX   time.Time `json:"finalPositionX"`
}

// Column is a grid column definition.
type Column struct {
	Text         string `json:"text"`
	MinWidth     int    `json:"minWidth"`
	DefaultWidth int    `json:"defaultWidth"`
}

// WidthInfo is reported back by the chart whenever the grid is resized.
type WidthInfo struct {
	ColumnWidths []int `json:"columnWidths"`
	GridWidth    int   `json:"gridWidth"`
}

// RowState is the expand/collapse state of a single row.
type RowState struct {
	IsExpanded bool `json:"isExpanded"`
}

// RowStatus maps row ids to their expand state.
type RowStatus map[int]RowState

// LegendItem is one entry of the color legend.
type LegendItem struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
