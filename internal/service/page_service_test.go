package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/fixture"
	"github.com/alexanderramin/ganttkit/internal/repository"
	"github.com/alexanderramin/ganttkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.Name)
	}
	return out
}

type pageFixture struct {
	svc   PageService
	prefs *repository.SQLitePreferencesRepo
	drops *repository.SQLiteDropLogRepo
	obs   *recordingObserver
}

func newPageFixture(t *testing.T) pageFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := pageFixture{
		prefs: repository.NewSQLitePreferencesRepo(database),
		drops: repository.NewSQLiteDropLogRepo(database),
		obs:   &recordingObserver{},
	}
	f.svc = NewPageService(controller.DefaultRegistry(), fixture.EmbeddedSource{}, f.prefs, f.drops, nil, f.obs)
	return f
}

func TestPageService_Pages(t *testing.T) {
	f := newPageFixture(t)

	pages := f.svc.Pages(context.Background())
	require.Len(t, pages, 3)
	assert.Equal(t, contract.PageInfo{Name: "scheduler", Title: "Scheduler", StorageKey: "SchedulerApp", Dataset: "schedule"}, pages[2])
}

func TestPageService_OpenUnknownPage(t *testing.T) {
	f := newPageFixture(t)

	_, err := f.svc.Open(context.Background(), "kanban")
	assert.ErrorIs(t, err, ErrUnknownPage)
	assert.Equal(t, []string{"open-page"}, f.obs.names())
	assert.False(t, f.obs.events[0].Success)
}

func TestPageService_OpenAndGet(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()

	opened, err := f.svc.Open(ctx, "gantt")
	require.NoError(t, err)
	require.NotEmpty(t, opened.ID)
	assert.Equal(t, "gantt", opened.Page)
	assert.Equal(t, domain.PhaseLoaded, opened.Props.Phase)
	assert.NotEmpty(t, opened.Props.Data.Rows)

	got, err := f.svc.Get(ctx, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, opened.Props, got.Props)

	_, err = f.svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestPageService_ToggleErrors(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	opened, err := f.svc.Open(ctx, "gantt")
	require.NoError(t, err)

	_, err = f.svc.Toggle(ctx, "missing", controller.ToggleLegend)
	assert.ErrorIs(t, err, ErrUnknownSession)

	_, err = f.svc.Toggle(ctx, opened.ID, controller.ToggleOverlay)
	assert.ErrorIs(t, err, controller.ErrUnsupportedToggle)

	props, err := f.svc.Toggle(ctx, opened.ID, controller.TogglePrimaryGridlines)
	require.NoError(t, err)
	assert.True(t, props.ShowPrimaryGridlines)
}

func TestPageService_CloseSavesPreferencesWithSession(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	opened, err := f.svc.Open(ctx, "scheduler")
	require.NoError(t, err)

	_, err = f.svc.Toggle(ctx, opened.ID, controller.ToggleOverlay)
	require.NoError(t, err)
	_, err = f.svc.SelectColorBy(ctx, opened.ID, contract.ColorByRequest{Value: "batchColor"})
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateScrollLeft(ctx, opened.ID, contract.ScrollLeftRequest{ScrollLeft: 240}))
	require.NoError(t, f.svc.UpdateWidths(ctx, opened.ID, domain.WidthInfo{ColumnWidths: []int{160}, GridWidth: 480}))

	require.NoError(t, f.svc.Close(ctx, opened.ID))

	stored, err := f.prefs.Get(ctx, "SchedulerApp")
	require.NoError(t, err)
	assert.Equal(t, opened.ID, stored.SessionID)
	assert.True(t, *stored.Patch.ShowOverlay)
	assert.Equal(t, 240, *stored.Patch.ScrollLeft)

	_, err = f.svc.Get(ctx, opened.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.ErrorIs(t, f.svc.Close(ctx, opened.ID), ErrUnknownSession)

	reopened, err := f.svc.Open(ctx, "scheduler")
	require.NoError(t, err)
	assert.True(t, reopened.Props.ShowOverlay)
	assert.Equal(t, "batchColor", reopened.Props.ColorBy)
	assert.Equal(t, []int{160}, reopened.Props.Widths.ColumnWidths)
	assert.Equal(t, 480, reopened.Props.Widths.GridWidth)
}

func TestPageService_SelectionsReturnProps(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	opened, err := f.svc.Open(ctx, "scheduler")
	require.NoError(t, err)

	props, err := f.svc.SetScale(ctx, opened.ID, contract.ScaleRequest{Position: 50})
	require.NoError(t, err)
	assert.Equal(t, 100, props.ScaleValue, "fit to window locks the scale")

	_, err = f.svc.Toggle(ctx, opened.ID, controller.ToggleAutoTimeScale)
	require.NoError(t, err)
	props, err = f.svc.SetScale(ctx, opened.ID, contract.ScaleRequest{Position: 50})
	require.NoError(t, err)
	assert.Equal(t, "10.0x", props.ScaleText)

	props, err = f.svc.SelectTimeScale(ctx, opened.ID, contract.TimeScaleRequest{Name: "DayHour"})
	require.NoError(t, err)
	assert.Equal(t, domain.TimeScaleDayHour, props.TimeScale)

	props, err = f.svc.SelectDetailLevel(ctx, opened.ID, contract.DetailLevelRequest{ID: 2})
	require.NoError(t, err)
	assert.Empty(t, props.RowStatus, "scheduler has no detail levels")

	require.NoError(t, f.svc.UpdateRowStatus(ctx, opened.ID, domain.RowStatus{1: {IsExpanded: true}}))
	got, err := f.svc.Get(ctx, opened.ID)
	require.NoError(t, err)
	assert.True(t, got.Props.RowStatus[1].IsExpanded)
}

func TestPageService_DropRecordsEvent(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	opened, err := f.svc.Open(ctx, "scheduler")
	require.NoError(t, err)
	rows := opened.Props.Data.Rows
	harvest := rows[1].Bars[1]
	require.Equal(t, domain.EntityProcedure, harvest.BarEntityType)

	resp, err := f.svc.Drop(ctx, opened.ID, contract.DropRequest{
		Bar:            harvest,
		InitialRow:     rows[1],
		FinalRow:       rows[2],
		FinalPositionX: harvest.StartDate.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.True(t, resp.Applied)
	assert.Equal(t, int64(30), resp.OffsetMin)
	assert.Equal(t, 1, resp.Moved)
	assert.True(t, resp.RowChanged)
	assert.Len(t, resp.Props.Data.Rows, 3)

	events, err := f.drops.List(ctx, "scheduler", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, opened.ID, e.SessionID)
	assert.Equal(t, harvest.ID, e.BarID)
	assert.Equal(t, 11, e.EntityID)
	assert.Equal(t, rows[1].ID, e.InitialRowID)
	assert.Equal(t, rows[2].ID, e.FinalRowID)
	assert.Equal(t, int64(30), e.OffsetMin)
}

func TestPageService_RejectedDropIsNotRecorded(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	opened, err := f.svc.Open(ctx, "scheduler")
	require.NoError(t, err)

	resp, err := f.svc.Drop(ctx, opened.ID, contract.DropRequest{
		Bar:        domain.Bar{ID: 5, BarEntityType: domain.EntityProcedure, BarEntityID: 10},
		InitialRow: domain.Row{ID: 1, RowEntityID: 77},
	})
	require.NoError(t, err)
	assert.False(t, resp.Applied)

	events, err := f.drops.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPageService_Click(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	opened, err := f.svc.Open(ctx, "scheduler")
	require.NoError(t, err)

	props, err := f.svc.Click(ctx, opened.ID, contract.ClickRequest{Kind: contract.SelectRow, RowID: 4})
	require.NoError(t, err)
	require.NotNil(t, props.Selection)
	assert.Equal(t, "Operator Shift A", props.Selection.Text)

	props, err = f.svc.Click(ctx, opened.ID, contract.ClickRequest{Kind: contract.SelectBarContext, RowID: 1, BarID: 1})
	require.NoError(t, err)
	assert.Equal(t, contract.SelectBarContext, props.Selection.Kind)

	_, err = f.svc.Click(ctx, opened.ID, contract.ClickRequest{Kind: "double"})
	assert.ErrorIs(t, err, ErrInvalidClick)
}

func TestPageService_ReloadFixture(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	for _, page := range []string{"gantt", "gantt", "scheduler"} {
		_, err := f.svc.Open(ctx, page)
		require.NoError(t, err)
	}

	n, err := f.svc.ReloadFixture(ctx, "gantt")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.svc.ReloadFixture(ctx, "unused")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPageService_DiscardSkipsSave(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	opened, err := f.svc.Open(ctx, "scheduler")
	require.NoError(t, err)
	_, err = f.svc.Toggle(ctx, opened.ID, controller.ToggleOverlay)
	require.NoError(t, err)

	require.NoError(t, f.svc.Discard(ctx, opened.ID))

	_, err = f.prefs.Get(ctx, "SchedulerApp")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, f.svc.Discard(ctx, opened.ID), ErrUnknownSession)
}

func TestPageService_CloseAll(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	var ids []string
	for _, page := range []string{"gantt", "scheduler"} {
		opened, err := f.svc.Open(ctx, page)
		require.NoError(t, err)
		ids = append(ids, opened.ID)
	}

	require.NoError(t, f.svc.CloseAll(ctx))

	for _, id := range ids {
		_, err := f.svc.Get(ctx, id)
		assert.ErrorIs(t, err, ErrUnknownSession)
	}
	stored, err := f.prefs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestPageService_WithoutPersistence(t *testing.T) {
	svc := NewPageService(controller.DefaultRegistry(), fixture.EmbeddedSource{}, nil, nil, nil)
	ctx := context.Background()

	opened, err := svc.Open(ctx, "scheduler")
	require.NoError(t, err)
	rows := opened.Props.Data.Rows
	resp, err := svc.Drop(ctx, opened.ID, contract.DropRequest{
		Bar:            rows[0].Bars[0],
		InitialRow:     rows[0],
		FinalRow:       rows[0],
		FinalPositionX: rows[0].Bars[0].StartDate,
	})
	require.NoError(t, err)
	assert.True(t, resp.Applied)
	assert.NoError(t, svc.Close(ctx, opened.ID))
}

func TestPageService_ConcurrentSessions(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	opened, err := f.svc.Open(ctx, "scheduler")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Toggle(ctx, opened.ID, controller.ToggleArrows)
			_, _ = f.svc.Get(ctx, opened.ID)
		}()
	}
	wg.Wait()

	got, err := f.svc.Get(ctx, opened.ID)
	require.NoError(t, err)
	assert.False(t, got.Props.ShowArrows, "an even number of flips")
}
