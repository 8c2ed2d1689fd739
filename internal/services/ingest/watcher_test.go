package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/insuregenie/internal/core/async"
)

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watched path")
		return ""
	}
}

func TestWatch_InitialScanThenNewFiles(t *testing.T) {
	root := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		SkipHidden:  true,
		Debounce:    50 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "a_policy.pdf"), next(t, ch))
	assert.Equal(t, filepath.Join(root, "b_card.JPG"), next(t, ch))
	assert.Equal(t, filepath.Join(root, "c_copy.pdf"), next(t, ch))
	assert.Equal(t, filepath.Join(root, "sub", "scan.tiff"), next(t, ch))

	writeFile(t, filepath.Join(root, "ignored.txt"), "text")
	writeFile(t, filepath.Join(root, "sub", "renewal.pdf"), "%PDF-1.4 renewal")
	assert.Equal(t, filepath.Join(root, "sub", "renewal.pdf"), next(t, ch))

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatch_NoRoots(t *testing.T) {
	_, err := Watch(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)

	_, err = Watch(context.Background(), WatchConfig{Roots: []string{filepath.Join(t.TempDir(), "missing")}}, nil)
	assert.Error(t, err)
}

func TestService_WatchDirectory(t *testing.T) {
	root := fixture(t)
	q := &recordingQueue{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan int, 1)
	go func() {
		n, err := NewService(NewScanner(nil), q, nil).WatchDirectory(ctx, WatchConfig{
			Roots:       []string{root},
			InitialScan: true,
			SkipHidden:  true,
		})
		assert.NoError(t, err)
		done <- n
	}()

	require.Eventually(t, func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return len(q.jobs) == 4
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case n := <-done:
		assert.Equal(t, 4, n)
	case <-time.After(5 * time.Second):
		t.Fatal("WatchDirectory did not return after cancel")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	assert.NotEmpty(t, q.jobs[0].TraceID)
}

type closedQueue struct{}

func (closedQueue) Enqueue(context.Context, async.Job) error { return async.ErrQueueClosed }

func (closedQueue) Shutdown(context.Context) {}

func TestService_WatchDirectoryStopsWatchingOnEnqueueError(t *testing.T) {
	root := fixture(t)
	before := runtime.NumGoroutine()

	n, err := NewService(NewScanner(nil), closedQueue{}, nil).WatchDirectory(context.Background(), WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		SkipHidden:  true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, async.ErrQueueClosed))
	assert.Zero(t, n)

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 5*time.Second, 10*time.Millisecond)
}
