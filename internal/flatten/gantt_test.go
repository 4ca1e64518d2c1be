package flatten

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) []*fixture.Node {
	t.Helper()
	data, err := fixture.EmbeddedSource{}.Open(context.Background(), "gantt")
	require.NoError(t, err)
	f, err := fixture.ParseGantt(data)
	require.NoError(t, err)
	return f.Tree()
}

func TestGantt_SingleCampaign(t *testing.T) {
	f, err := fixture.ParseGantt([]byte(`{"campaigns":[{"campaignName":"C1","startDate":"2024-01-01T00:00:00Z","endDate":"2024-01-02T00:00:00Z","batches":[]}]}`))
	require.NoError(t, err)

	rows := Gantt(f.Tree(), GanttOptions{}, NewIDGen())

	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, 1, r.ID)
	require.Len(t, r.Bars, 1)
	assert.Equal(t, 1, r.Bars[0].ID)
	assert.Equal(t, "C1", r.GridValues[0])
	assert.Equal(t, "2024-01-01 00:00", r.GridValues[1])
	assert.Equal(t, "2024-01-02 00:00", r.GridValues[2])
	assert.Equal(t, "1 d, 0 h, 0 m", r.GridValues[3])
	assert.Equal(t, domain.EntityCampaign, r.RowEntityType)
	assert.NotNil(t, r.ChildRows)
	assert.Empty(t, r.ChildRows)
}

func TestGantt_RowPerNodeWithUniqueIDs(t *testing.T) {
	tree := sampleTree(t)
	rows := Gantt(tree, GanttOptions{}, NewIDGen())

	assert.Equal(t, fixture.CountNodes(tree), CountRows(rows))

	rowIDs := map[int]bool{}
	barIDs := map[int]bool{}
	prev := 0
	WalkRows(rows, func(r *domain.Row, _ int) bool {
		assert.False(t, rowIDs[r.ID], "duplicate row id %d", r.ID)
		rowIDs[r.ID] = true
		assert.Greater(t, r.ID, prev, "row ids must increase in traversal order")
		prev = r.ID
		for _, b := range r.Bars {
			assert.False(t, barIDs[b.ID], "duplicate bar id %d", b.ID)
			barIDs[b.ID] = true
		}
		return true
	})
}

func TestGantt_BreaksProduceSegmentsAndLabel(t *testing.T) {
	tree := sampleTree(t)
	rows := Gantt(tree, GanttOptions{}, NewIDGen())

	var dissolve *domain.Row
	WalkRows(rows, func(r *domain.Row, _ int) bool {
		if r.GridValues[0] == "Dissolve" {
			dissolve = r
			return false
		}
		return true
	})
	require.NotNil(t, dissolve)
	require.Len(t, dissolve.Bars, 3)

	main, brk, label := dissolve.Bars[0], dissolve.Bars[1], dissolve.Bars[2]
	assert.Empty(t, main.Text)
	assert.Equal(t, domain.EntityBreak, brk.BarEntityType)
	assert.Equal(t, "rgb(255,255,255)", brk.BarStyle.BackgroundColor)
	assert.Equal(t, "Dissolve", label.Text)
	assert.Equal(t, "transparent", label.BarStyle.BackgroundColor)
	assert.Equal(t, "rgb(0,0,0)", label.BarStyle.Color)

	for _, b := range dissolve.Bars {
		assert.Equal(t, dissolve.RowEntityID, b.BarEntityID)
	}
}

func TestGantt_BarCountMatchesBreaks(t *testing.T) {
	tree := sampleTree(t)
	rows := Gantt(tree, GanttOptions{}, NewIDGen())

	var check func(nodes []*fixture.Node, rows []domain.Row)
	check = func(nodes []*fixture.Node, rows []domain.Row) {
		require.Len(t, rows, len(nodes))
		for i, n := range nodes {
			want := 1
			if len(n.Breaks) > 0 {
				want = len(n.Breaks) + 2
			}
			assert.Len(t, rows[i].Bars, want, "node %s", n.Name)
			check(n.Children, rows[i].ChildRows)
		}
	}
	check(tree, rows)
}

func TestGantt_RelativeTime(t *testing.T) {
	tree := sampleTree(t)
	rows := Gantt(tree, GanttOptions{ShowRelativeTime: true}, NewIDGen())

	assert.Equal(t, "T+0 d, 0 h, 0 m", rows[0].GridValues[1])
	assert.Equal(t, "T+4 d, 12 h, 0 m", rows[0].GridValues[2])
	assert.Equal(t, "T+6 d, 18 h, 0 m", rows[1].GridValues[1])
	assert.Equal(t, rows[0].GridValues[3], "4 d, 12 h, 0 m")
}

func TestGantt_OnlyProceduresAndOperationsDrag(t *testing.T) {
	rows := Gantt(sampleTree(t), GanttOptions{}, NewIDGen())
	WalkRows(rows, func(r *domain.Row, _ int) bool {
		want := r.RowEntityType == domain.EntityProcedure || r.RowEntityType == domain.EntityOperation
		assert.Equal(t, want, r.Bars[0].IsDraggable, "row %s", r.GridValues[0])
		return true
	})
}

func rowNamed(rows []domain.Row, name string) *domain.Row {
	var found *domain.Row
	WalkRows(rows, func(r *domain.Row, _ int) bool {
		if r.GridValues[0] == name {
			found = r
			return false
		}
		return true
	})
	return found
}

func TestGantt_MovesDrawBarsOnHostRow(t *testing.T) {
	tree := sampleTree(t)
	plain := Gantt(tree, GanttOptions{}, NewIDGen())
	thaw, seed := rowNamed(plain, "Thaw Vial"), rowNamed(plain, "Seed Expansion")
	require.NotNil(t, thaw)
	require.NotNil(t, seed)

	rows := Gantt(tree, GanttOptions{Moves: []Move{
		{NodeID: thaw.RowEntityID, RowNodeID: seed.RowEntityID},
		{NodeID: thaw.RowEntityID, RowNodeID: thaw.RowEntityID},
		{NodeID: 10_000, RowNodeID: seed.RowEntityID},
		{NodeID: seed.RowEntityID, RowNodeID: 10_000},
	}}, NewIDGen())

	src, dst := rowNamed(rows, "Thaw Vial"), rowNamed(rows, "Seed Expansion")
	assert.NotNil(t, src.Bars)
	assert.Empty(t, src.Bars)
	assert.Equal(t, thaw.GridValues, src.GridValues, "the row keeps its grid values")
	require.Len(t, dst.Bars, 2)
	assert.Equal(t, seed.RowEntityID, dst.Bars[0].BarEntityID)
	assert.Equal(t, thaw.RowEntityID, dst.Bars[1].BarEntityID)
	assert.Equal(t, CountRows(plain), CountRows(rows))
}

func TestGantt_SharedGeneratorContinuesIDs(t *testing.T) {
	ids := NewIDGen()
	first := Gantt(sampleTree(t), GanttOptions{}, ids)
	second := Gantt(sampleTree(t), GanttOptions{}, ids)

	assert.Equal(t, CountRows(first)+1, second[0].ID)
}

func TestGantt_RandomTreesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		f := fixture.GenerateLarge(rng.Int63(), 1+rng.Intn(6))
		tree := f.Tree()
		rows := Gantt(tree, GanttOptions{ShowRelativeTime: i%2 == 0}, NewIDGen())

		require.Equal(t, fixture.CountNodes(tree), CountRows(rows))
		WalkRows(rows, func(r *domain.Row, _ int) bool {
			assert.NotNil(t, r.ChildRows)
			assert.Len(t, r.GridValues, 4)
			for _, b := range r.Bars {
				assert.False(t, b.EndDate.Before(b.StartDate))
			}
			return true
		})
	}
}

func TestRowStatusForDetailLevel(t *testing.T) {
	levels := []domain.DetailLevel{
		{ID: 1, Name: domain.EntityCampaign, Enabled: true},
		{ID: 2, Name: domain.EntityBatch, Enabled: true},
		{ID: 3, Name: domain.EntityProcedure, Enabled: true},
		{ID: 4, Name: domain.EntityOperation, Enabled: true},
	}
	rows := Gantt(sampleTree(t), GanttOptions{}, NewIDGen())

	status := RowStatusForDetailLevel(rows, levels, levels[2])

	assert.Len(t, status, CountRows(rows))
	WalkRows(rows, func(r *domain.Row, _ int) bool {
		want := r.RowEntityType == domain.EntityCampaign || r.RowEntityType == domain.EntityBatch
		assert.Equal(t, want, status[r.ID].IsExpanded, "row %d (%s)", r.ID, r.RowEntityType)
		return true
	})

	status = RowStatusForDetailLevel(rows, levels, levels[0])
	for id, st := range status {
		assert.False(t, st.IsExpanded, "row %d", id)
	}
}

func TestFindRow(t *testing.T) {
	rows := Gantt(sampleTree(t), GanttOptions{}, NewIDGen())

	r := FindRow(rows, 4)
	require.NotNil(t, r)
	assert.Equal(t, 4, r.ID)
	r.GridValues[0] = "edited"
	assert.Equal(t, "edited", FindRow(rows, 4).GridValues[0])

	assert.Nil(t, FindRow(rows, 10_000))
}

func TestEarliestStart(t *testing.T) {
	a := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, b, earliestStart([]*fixture.Node{{StartDate: a}, {StartDate: b}}))
	assert.True(t, earliestStart(nil).IsZero())
}
