package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

func TestQueue_CoalescesWhileRunning(t *testing.T) {
	q := NewQueue()
	started := make(chan struct{}, 10)
	release := make(chan struct{})
	var runs, active, maxActive int32

	job := func() {
		n := atomic.AddInt32(&active, 1)
		for {
			m := atomic.LoadInt32(&maxActive)
			if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
				break
			}
		}
		atomic.AddInt32(&runs, 1)
		started <- struct{}{}
		<-release
		atomic.AddInt32(&active, -1)
	}

	q.Submit("login.feature", job)
	waitFor(t, started)
	q.Submit("login.feature", job)
	q.Submit("login.feature", job)
	q.Submit("login.feature", job)
	close(release)
	q.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
}

func TestQueue_FollowUpRunsLatestJob(t *testing.T) {
	q := NewQueue()
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var got []string

	q.Submit("k", func() {
		close(started)
		<-release
		mu.Lock()
		got = append(got, "first")
		mu.Unlock()
	})
	waitFor(t, started)
	for _, name := range []string{"second", "third"} {
		q.Submit("k", func() {
			mu.Lock()
			got = append(got, name)
			mu.Unlock()
		})
	}
	close(release)
	q.Wait()

	assert.Equal(t, []string{"first", "third"}, got)
}

func TestQueue_KeysRunIndependently(t *testing.T) {
	q := NewQueue()
	startedA := make(chan struct{})
	startedB := make(chan struct{})
	release := make(chan struct{})

	q.Submit("a", func() { close(startedA); <-release })
	q.Submit("b", func() { close(startedB); <-release })

	waitFor(t, startedA)
	waitFor(t, startedB)
	close(release)
	q.Wait()
}

func TestQueue_SequentialSubmitsEachRun(t *testing.T) {
	q := NewQueue()
	var runs int32
	for range 3 {
		q.Submit("k", func() { atomic.AddInt32(&runs, 1) })
		q.Wait()
	}
	assert.Equal(t, int32(3), runs)
}

func TestWatcher_RunsJobForMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, ".feature")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	seen := make(chan string, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Run(ctx, func(path string) { seen <- path }))
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "login.feature")
	require.NoError(t, os.WriteFile(target, []byte("Feature: Login\n"), 0o644))

	select {
	case p := <-seen:
		assert.Equal(t, target, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for login.feature")
	}

	cancel()
	<-done
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), ".feature")
	assert.Error(t, err)
}
