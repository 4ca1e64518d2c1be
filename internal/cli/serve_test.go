package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ganttkit/internal/config"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func serveConfig() config.Config {
	cfg := config.Default(".")
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}

func TestRunServe_SavesOpenPagesOnShutdown(t *testing.T) {
	f := testApp(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())

	resp, err := f.app.Pages.Open(ctx, "scheduler")
	require.NoError(t, err)
	_, err = f.app.Pages.Toggle(ctx, resp.ID, controller.ToggleLegend)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- runServe(ctx, f.app, serveConfig()) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancel")
	}

	stored, err := f.prefs.Get(context.Background(), "SchedulerApp")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, stored.SessionID)
	require.NotNil(t, stored.Patch.ShowChartLegend)
	assert.True(t, *stored.Patch.ShowChartLegend)

	_, err = f.app.Pages.Get(context.Background(), resp.ID)
	assert.Error(t, err)
}

func TestRunServe_WatchNeedsFixtureDir(t *testing.T) {
	f := testApp(t)
	cfg := serveConfig()
	cfg.Watch.Enabled = true

	err := runServe(context.Background(), f.app, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixture_dir")
}

func TestRunServe_BadAddress(t *testing.T) {
	f := testApp(t)
	cfg := serveConfig()
	cfg.Server.Addr = "not-an-address"

	err := runServe(context.Background(), f.app, cfg)
	assert.Error(t, err)
}
