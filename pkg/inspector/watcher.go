// Package inspector watches the embedded developer inspector of each surface
// and moves it into its own window when it opens.
//
// Each watched surface gets one goroutine that polls on a fixed interval. A
// loop ends when its surface can no longer be resolved or when it is stopped
// explicitly. Watchers never touch tab state.
package inspector

import (
	"context"
	"sync"
	"time"

	"github.com/entrhq/clawbrowser/pkg/logging"
)

// DefaultPollInterval is used when the watcher is created with a zero interval.
const DefaultPollInterval = 250 * time.Millisecond

// Capable is implemented by surfaces that have an embedded inspector.
// Surfaces without one are never watched.
type Capable interface {
	InspectorOpen() bool
	DetachInspector() error
}

// Resolver looks up the inspector of a live surface. It returns false once
// the surface is gone.
type Resolver func(id string) (Capable, bool)

// Watcher runs one polling loop per surface id.
type Watcher struct {
	mu       sync.Mutex
	loops    map[string]*loop
	resolve  Resolver
	interval time.Duration
	logger   *logging.Logger
	wg       sync.WaitGroup
}

type loop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher.
func NewWatcher(resolve Resolver, interval time.Duration, logger *logging.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		loops:    make(map[string]*loop),
		resolve:  resolve,
		interval: interval,
		logger:   logger,
	}
}

// Interval returns the poll interval.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Start begins watching id. It returns false when the surface has no
// inspector or is already watched.
func (w *Watcher) Start(id string) bool {
	if _, ok := w.resolve(id); !ok {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, running := w.loops[id]; running {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &loop{cancel: cancel, done: make(chan struct{})}
	w.loops[id] = l

	w.wg.Add(1)
	go w.run(ctx, id, l)
	return true
}

// Stop cancels the loop for id and waits for it to exit.
func (w *Watcher) Stop(id string) {
	w.mu.Lock()
	l, ok := w.loops[id]
	w.mu.Unlock()

	if !ok {
		return
	}
	l.cancel()
	<-l.done
}

// StopAll cancels every loop and waits for them to exit.
func (w *Watcher) StopAll() {
	w.mu.Lock()
	for _, l := range w.loops {
		l.cancel()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// Running reports whether id has a live loop.
func (w *Watcher) Running(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.loops[id]
	return ok
}

// Count returns the number of live loops.
func (w *Watcher) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.loops)
}

func (w *Watcher) run(ctx context.Context, id string, l *loop) {
	defer func() {
		w.mu.Lock()
		if w.loops[id] == l {
			delete(w.loops, id)
		}
		w.mu.Unlock()
		close(l.done)
		w.wg.Done()
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	wasOpen := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		target, ok := w.resolve(id)
		if !ok {
			w.logger.Debugf("inspector watcher for %s exiting: surface gone", id)
			return
		}

		open := target.InspectorOpen()
		if open && !wasOpen {
			if err := target.DetachInspector(); err != nil {
				w.logger.Debugf("detach inspector of %s: %v", id, err)
			}
		}
		wasOpen = open
	}
}
