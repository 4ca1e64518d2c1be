package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrefsRepo(t *testing.T) *SQLitePreferencesRepo {
	t.Helper()
	repo := NewSQLitePreferencesRepo(testutil.NewTestDB(t))
	repo.now = func() time.Time { return testutil.BaseTime }
	return repo
}

func TestPreferencesRepo_LoadMissingReturnsNil(t *testing.T) {
	repo := newPrefsRepo(t)

	patch, err := repo.Load(context.Background(), "GanttApp")
	require.NoError(t, err)
	assert.Nil(t, patch)
}

func TestPreferencesRepo_SaveAndLoad(t *testing.T) {
	repo := newPrefsRepo(t)
	ctx := context.Background()
	patch := testutil.NewTestPatch(42, true)

	require.NoError(t, repo.Save(ctx, "GanttApp", patch))

	got, err := repo.Load(ctx, "GanttApp")
	require.NoError(t, err)
	assert.Equal(t, patch, got)
	assert.Nil(t, got.AutoTimeScale, "fields never saved stay absent")
}

func TestPreferencesRepo_FullPreferencesRoundTrip(t *testing.T) {
	repo := newPrefsRepo(t)
	ctx := context.Background()
	prefs := domain.Preferences{
		TimeScale:     domain.TimeScaleMonthWeek,
		Zoom:          1000,
		ScalePosition: 50,
		ShowOverlay:   true,
		ColorBy:       domain.ColorByBatch.Value,
		ColumnWidths:  []int{180},
		GridWidth:     520,
		ScrollLeft:    64,
		RowStatus:     domain.RowStatus{4: {IsExpanded: true}},
	}

	require.NoError(t, repo.Save(ctx, "SchedulerApp", prefs.Patch()))
	got, err := repo.Load(ctx, "SchedulerApp")
	require.NoError(t, err)

	assert.Equal(t, prefs, domain.Preferences{}.Merge(got))
}

func TestPreferencesRepo_PutOverwrites(t *testing.T) {
	repo := newPrefsRepo(t)
	ctx := context.Background()
	later := testutil.BaseTime.Add(2 * time.Hour)

	require.NoError(t, repo.Put(ctx, StoredPreferences{PageKey: "GanttApp", Patch: testutil.NewTestPatch(10, false), SessionID: "s-1"}))
	require.NoError(t, repo.Put(ctx, StoredPreferences{PageKey: "GanttApp", Patch: testutil.NewTestPatch(20, true), SessionID: "s-2", SavedAt: later}))

	got, err := repo.Get(ctx, "GanttApp")
	require.NoError(t, err)
	assert.Equal(t, "GanttApp", got.PageKey)
	assert.Equal(t, "s-2", got.SessionID)
	assert.Equal(t, 20, *got.Patch.Zoom)
	assert.True(t, got.SavedAt.Equal(later), "saved at %s", got.SavedAt)
}

func TestPreferencesRepo_SaveStampsClock(t *testing.T) {
	repo := newPrefsRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "GanttApp", nil))
	got, err := repo.Get(ctx, "GanttApp")
	require.NoError(t, err)
	assert.True(t, got.SavedAt.Equal(testutil.BaseTime))
	assert.Equal(t, &domain.PreferencesPatch{}, got.Patch)
}

func TestPreferencesRepo_MalformedPayload(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePreferencesRepo(database)
	ctx := context.Background()

	_, err := database.Exec(`INSERT INTO preferences (page_key, payload, saved_at) VALUES ('GanttApp', '{"zoom": "wide"', ?)`,
		formatTime(testutil.BaseTime))
	require.NoError(t, err)

	patch, err := repo.Load(ctx, "GanttApp")
	assert.Error(t, err)
	assert.Nil(t, patch)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPreferencesRepo_GetMissing(t *testing.T) {
	repo := newPrefsRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPreferencesRepo_ListOrderedByKey(t *testing.T) {
	repo := newPrefsRepo(t)
	ctx := context.Background()
	for _, key := range []string{"SchedulerApp", "GanttApp", "GanttLargeApp"} {
		require.NoError(t, repo.Save(ctx, key, testutil.NewTestPatch(1, false)))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	var keys []string
	for _, p := range list {
		keys = append(keys, p.PageKey)
	}
	assert.Equal(t, []string{"GanttApp", "GanttLargeApp", "SchedulerApp"}, keys)
}

func TestPreferencesRepo_Delete(t *testing.T) {
	repo := newPrefsRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "GanttApp", testutil.NewTestPatch(5, false)))

	require.NoError(t, repo.Delete(ctx, "GanttApp"))
	patch, err := repo.Load(ctx, "GanttApp")
	require.NoError(t, err)
	assert.Nil(t, patch)

	assert.ErrorIs(t, repo.Delete(ctx, "GanttApp"), ErrNotFound)
}
