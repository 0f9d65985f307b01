package watch

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/chriserin/testgen/pkg/logging"
)

// Watcher reports writes to files in one directory whose names end in a
// suffix.
type Watcher struct {
	fs     *fsnotify.Watcher
	dir    string
	suffix string
	queue  *Queue
}

// New starts watching dir. Events are buffered until Run is called.
func New(dir, suffix string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{fs: fw, dir: dir, suffix: suffix, queue: NewQueue()}, nil
}

// Run calls job with the path of every created or written file until ctx is
// done. Jobs for one path never overlap.
func (w *Watcher) Run(ctx context.Context, job func(path string)) error {
	defer w.queue.Wait()
	defer w.fs.Close()

	logging.Info("watch", "watching %s for *%s", w.dir, w.suffix)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			path := ev.Name
			logging.Debug("watch", "%s %s", ev.Op, path)
			w.queue.Submit(path, func() { job(path) })
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logging.Error("watch", err, "watcher error")
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, w.suffix) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
