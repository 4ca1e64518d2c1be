package formatter

import (
	"testing"

	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []domain.Row {
	return []domain.Row{{
		ID:         1,
		GridValues: []string{"A", "x"},
		ChildRows: []domain.Row{
			{
				ID:         2,
				GridValues: []string{"B"},
				ChildRows: []domain.Row{
					{ID: 3, GridValues: []string{"C"}, Bars: make([]domain.Bar, 2)},
				},
			},
			{ID: 4, GridValues: []string{"D"}, Bars: make([]domain.Bar, 1)},
		},
	}}
}

func visibleIDs(v []VisibleRow) []int {
	ids := make([]int, 0, len(v))
	for _, r := range v {
		ids = append(ids, r.Row.ID)
	}
	return ids
}

func TestVisibleRows_FollowsRowStatus(t *testing.T) {
	rows := sampleRows()

	assert.Equal(t, []int{1}, visibleIDs(VisibleRows(rows, nil, false)))
	assert.Equal(t, []int{1, 2, 4}, visibleIDs(VisibleRows(rows, domain.RowStatus{1: {IsExpanded: true}}, false)))
	assert.Equal(t, []int{1}, visibleIDs(VisibleRows(rows, domain.RowStatus{2: {IsExpanded: true}}, false)),
		"expanded child of a collapsed parent stays hidden")
	assert.Equal(t, []int{1, 2, 3, 4}, visibleIDs(VisibleRows(rows, nil, true)))
}

func TestVisibleRows_LeafIsNeverExpanded(t *testing.T) {
	rows := sampleRows()
	v := VisibleRows(rows, domain.RowStatus{1: {IsExpanded: true}, 4: {IsExpanded: true}}, false)
	require.Len(t, v, 3)
	assert.True(t, v[0].Expanded)
	assert.False(t, v[2].Expanded)
	assert.False(t, v[2].HasChildren())
	assert.True(t, v[2].IsLast)
}

func TestRenderTree_Connectors(t *testing.T) {
	out := stripANSI(RenderTree(TreeItems(VisibleRows(sampleRows(), nil, true))))

	want := "" +
		"▾ A        x\n" +
		"├─ ▾ B     0 bars\n" +
		"│  └─   C  2 bars\n" +
		"└─   D     1 bar\n"
	assert.Equal(t, want, out)
}

func TestRenderTree_Empty(t *testing.T) {
	assert.Empty(t, RenderTree(nil))
}
