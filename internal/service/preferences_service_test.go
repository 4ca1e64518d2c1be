package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/db"
	"github.com/alexanderramin/ganttkit/internal/repository"
	"github.com/alexanderramin/ganttkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesService_ShowDefaults(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewPreferencesService(controller.DefaultRegistry(), repository.NewSQLitePreferencesRepo(database), testutil.NewTestUoW(database))

	view, err := svc.Show(context.Background(), "gantt")
	require.NoError(t, err)
	assert.Equal(t, "GanttApp", view.StorageKey)
	assert.Nil(t, view.Stored)
	assert.Empty(t, view.Problem)
	assert.Equal(t, controller.GanttPage().Defaults, view.Effective)
}

func TestPreferencesService_ShowMergesStored(t *testing.T) {
	database := testutil.NewTestDB(t)
	prefs := repository.NewSQLitePreferencesRepo(database)
	svc := NewPreferencesService(controller.DefaultRegistry(), prefs, testutil.NewTestUoW(database))
	ctx := context.Background()
	require.NoError(t, prefs.Put(ctx, repository.StoredPreferences{PageKey: "GanttApp", Patch: testutil.NewTestPatch(64, true), SessionID: "s-9"}))

	view, err := svc.Show(ctx, "gantt")
	require.NoError(t, err)
	require.NotNil(t, view.Stored)
	assert.Equal(t, "s-9", view.Stored.SessionID)
	assert.Equal(t, 64, view.Effective.Zoom)
	assert.True(t, view.Effective.ShowRelativeTime)
	assert.Equal(t, 400, view.Effective.GridWidth, "unsaved fields keep defaults")
}

func TestPreferencesService_ShowMalformedBlob(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewPreferencesService(controller.DefaultRegistry(), repository.NewSQLitePreferencesRepo(database), testutil.NewTestUoW(database))
	_, err := database.Exec(`INSERT INTO preferences (page_key, payload, saved_at) VALUES ('SchedulerApp', 'not json', '2024-03-04T06:00:00.000000000Z')`)
	require.NoError(t, err)

	view, err := svc.Show(context.Background(), "scheduler")
	require.NoError(t, err)
	assert.Nil(t, view.Stored)
	assert.NotEmpty(t, view.Problem)
	assert.Equal(t, controller.SchedulerPage().Defaults, view.Effective)
}

func TestPreferencesService_ShowUnknownPage(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewPreferencesService(controller.DefaultRegistry(), repository.NewSQLitePreferencesRepo(database), testutil.NewTestUoW(database))

	_, err := svc.Show(context.Background(), "kanban")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func seedPrefsAndDrops(t *testing.T, database db.DBTX) {
	t.Helper()
	ctx := context.Background()
	prefs := repository.NewSQLitePreferencesRepo(database)
	drops := repository.NewSQLiteDropLogRepo(database)
	require.NoError(t, prefs.Save(ctx, "GanttApp", testutil.NewTestPatch(5, false)))
	require.NoError(t, prefs.Save(ctx, "SchedulerApp", testutil.NewTestPatch(500, false)))
	require.NoError(t, drops.Record(ctx, testutil.NewTestDropEvent("gantt")))
	require.NoError(t, drops.Record(ctx, testutil.NewTestDropEvent("scheduler")))
	require.NoError(t, drops.Record(ctx, testutil.NewTestDropEvent("scheduler")))
}

func TestPreferencesService_Reset(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedPrefsAndDrops(t, database)
	prefs := repository.NewSQLitePreferencesRepo(database)
	obs := &recordingObserver{}
	svc := NewPreferencesService(controller.DefaultRegistry(), prefs, testutil.NewTestUoW(database), obs)
	ctx := context.Background()

	res, err := svc.Reset(ctx, []string{"scheduler", "gantt-large"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Cleared, "gantt-large had nothing stored")
	assert.Equal(t, int64(2), res.DropsDeleted)

	left, err := prefs.List(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "GanttApp", left[0].PageKey)

	drops, err := repository.NewSQLiteDropLogRepo(database).List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, drops, 1)
	assert.Equal(t, "gantt", drops[0].Page)
	assert.Equal(t, []string{"reset-preferences"}, obs.names())
}

func TestPreferencesService_ResetKeepsDropsByDefault(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedPrefsAndDrops(t, database)
	svc := NewPreferencesService(controller.DefaultRegistry(), repository.NewSQLitePreferencesRepo(database), testutil.NewTestUoW(database))

	res, err := svc.Reset(context.Background(), []string{"scheduler"}, false)
	require.NoError(t, err)
	assert.Zero(t, res.DropsDeleted)

	drops, err := repository.NewSQLiteDropLogRepo(database).List(context.Background(), "scheduler", 0)
	require.NoError(t, err)
	assert.Len(t, drops, 2)
}

func TestPreferencesService_ResetUnknownPageTouchesNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedPrefsAndDrops(t, database)
	prefs := repository.NewSQLitePreferencesRepo(database)
	svc := NewPreferencesService(controller.DefaultRegistry(), prefs, testutil.NewTestUoW(database))

	_, err := svc.Reset(context.Background(), []string{"gantt", "kanban"}, true)
	assert.ErrorIs(t, err, ErrUnknownPage)

	left, err := prefs.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestPreferencesService_ResetRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedPrefsAndDrops(t, database)
	prefs := repository.NewSQLitePreferencesRepo(database)
	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: boom}
	svc := NewPreferencesService(controller.DefaultRegistry(), prefs, uow)

	_, err := svc.Reset(context.Background(), []string{"gantt", "scheduler"}, true)
	assert.ErrorIs(t, err, boom)

	left, err := prefs.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, left, 2, "the first page's delete is rolled back")
	drops, err := repository.NewSQLiteDropLogRepo(database).List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, drops, 3)
}

func TestDropLogService_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedPrefsAndDrops(t, database)
	svc := NewDropLogService(controller.DefaultRegistry(), repository.NewSQLiteDropLogRepo(database))
	ctx := context.Background()

	all, err := svc.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sched, err := svc.List(ctx, "scheduler", 1)
	require.NoError(t, err)
	assert.Len(t, sched, 1)

	_, err = svc.List(ctx, "kanban", 0)
	assert.ErrorIs(t, err, ErrUnknownPage)
}
