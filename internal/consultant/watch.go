package consultant

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDelay is how long a rules file must stay quiet before it is
// reloaded. Editors often write a file in several steps.
const DefaultReloadDelay = 300 * time.Millisecond

// RulesWatcher reloads a rules file whenever it changes on disk and hands
// every valid result to onReload. Invalid files go to onError and the
// previous rules stay in effect.
type RulesWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(*RuleSet)
	onError  func(error)
	delay    time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	wg      sync.WaitGroup
}

// NewRulesWatcher watches path. The parent directory is watched so that
// files replaced by rename are picked up too.
func NewRulesWatcher(path string, onReload func(*RuleSet), onError func(error)) (*RulesWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve rules path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &RulesWatcher{
		path:     abs,
		watcher:  watcher,
		onReload: onReload,
		onError:  onError,
		delay:    DefaultReloadDelay,
	}, nil
}

// Start begins handling filesystem events.
func (w *RulesWatcher) Start() {
	w.wg.Add(1)
	go w.eventLoop()
}

// Stop ends watching and waits for the event loop to exit. A pending reload
// is dropped.
func (w *RulesWatcher) Stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	_ = w.watcher.Close()
	w.wg.Wait()
}

func (w *RulesWatcher) eventLoop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(fmt.Errorf("watch rules: %w", err))
		}
	}
}

func (w *RulesWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *RulesWatcher) reload() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	rules, err := LoadRules(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	w.onReload(rules)
}
