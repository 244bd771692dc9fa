package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settleDelay lets a burst of writes to one file finish before it is read.
const settleDelay = 100 * time.Millisecond

// Watcher reprocesses input files whenever they are written. The grammar is
// recompiled on every event, so edits to the grammar file take effect on
// the next change of an input file.
type Watcher struct {
	engine  *Engine
	logger  *zap.Logger
	grammar string
	dirs    []string
	accept  func(path string) bool
	report  func(Result)

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewWatcher prepares a watcher over dirs. report is called from the
// watcher goroutine for every processed file.
func NewWatcher(engine *Engine, grammar string, dirs []string, accept func(string) bool, report func(Result)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if accept == nil {
		accept = func(string) bool { return true }
	}
	return &Watcher{
		engine:  engine,
		logger:  engine.logger,
		grammar: grammar,
		dirs:    dirs,
		accept:  accept,
		report:  report,
		watcher: fw,
	}, nil
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("already watching")
	}

	for _, dir := range w.dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	w.running = true
	w.done = make(chan struct{})
	go w.loop(w.done)
	return nil
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return errors.New("not watching")
	}
	w.running = false
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(done chan struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.accept(event.Name) {
		return
	}

	time.Sleep(settleDelay)
	prog, err := w.engine.CompileFile(w.grammar)
	if err != nil {
		w.logger.Error("error compiling grammar", zap.String("file", w.grammar), zap.Error(err))
		return
	}
	res, err := w.engine.RunFile(prog, event.Name)
	if err != nil {
		w.logger.Error("error processing file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	w.logger.Debug("processed", zap.String("file", event.Name), zap.Int("nodes", len(res.Forest)))
	if w.report != nil {
		w.report(res)
	}
}
