package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type chanReloader chan string

func (c chanReloader) ReloadFixture(_ context.Context, name string) (int, error) {
	c <- name
	return 1, nil
}

func TestFixtureName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/srv/fixtures/gantt.json", "gantt"},
		{"scheduler.json", "scheduler"},
		{"/srv/fixtures/notes.txt", ""},
		{"/srv/fixtures/.gantt.json", ""},
		{"/srv/fixtures/gantt.json.swp", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FixtureName(tt.path), tt.path)
	}
}

func TestWatcher_ReloadsOncePerBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	reloads := make(chanReloader, 8)
	w, err := New(dir, 50*time.Millisecond, reloads, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(dir, "gantt.json")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"campaigns":[]}`), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	select {
	case name := <-reloads:
		assert.Equal(t, "gantt", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after fixture write")
	}

	select {
	case name := <-reloads:
		t.Fatalf("unexpected second reload of %s", name)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_StopsWithoutEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(t.TempDir(), time.Millisecond, make(chanReloader), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx))
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), time.Millisecond, make(chanReloader), nil)
	assert.Error(t, err)
}
