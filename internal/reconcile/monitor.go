package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/wikistore/internal/logfields"
)

// Monitor runs the checker on a schedule and, optionally, when the content
// root changes on disk. File events are debounced: a save touches several
// paths in quick succession and only the settled state matters.
type Monitor struct {
	checker  *Checker
	interval time.Duration

	scheduler gocron.Scheduler
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	stopChan  chan struct{}
}

// NewMonitor creates a monitor sweeping at the given interval. When watch is
// set, filesystem events under the content root also trigger a sweep.
func NewMonitor(checker *Checker, interval time.Duration, watch bool) (*Monitor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	m := &Monitor{
		checker:   checker,
		interval:  interval,
		scheduler: scheduler,
		debounce:  2 * time.Second,
		stopChan:  make(chan struct{}),
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		if err := watcher.Add(checker.root); err != nil {
			_ = watcher.Close()
			return nil, err
		}
		m.watcher = watcher
	}

	return m, nil
}

// Start begins the periodic sweep and the watch loop.
func (m *Monitor) Start(ctx context.Context) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(m.interval),
		gocron.NewTask(func() { m.sweep(ctx) }),
	)
	if err != nil {
		return err
	}
	m.scheduler.Start()
	slog.Info("Reconcile monitor started",
		logfields.Path(m.checker.root),
		slog.Duration("interval", m.interval),
		slog.Bool("watch", m.watcher != nil))

	if m.watcher != nil {
		go m.watchLoop(ctx)
	}
	return nil
}

// Stop shuts the scheduler and watcher down.
func (m *Monitor) Stop() error {
	close(m.stopChan)
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	return m.scheduler.Shutdown()
}

func (m *Monitor) sweep(ctx context.Context) {
	if _, err := m.checker.Check(ctx); err != nil {
		slog.Warn("Reconcile sweep failed", logfields.Error(err))
	}
}

func (m *Monitor) watchLoop(ctx context.Context) {
	var timer *time.Timer
	trigger := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(m.debounce, func() { m.sweep(ctx) })
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Reconcile watcher error", logfields.Error(err))
		}
	}
}
