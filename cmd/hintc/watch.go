package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports changes to one file. It watches the parent directory
// so editors that replace the file on save are still seen.
type fileWatcher struct {
	w      *fsnotify.Watcher
	target string
	evC    chan struct{}
	erC    chan error
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	fw := &fileWatcher{w: w, target: abs, evC: make(chan struct{}, 1), erC: make(chan error, 1)}
	go fw.loop()
	return fw, nil
}

func (fw *fileWatcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// coalesce bursts of writes into one pending change
			select {
			case fw.evC <- struct{}{}:
			default:
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func (fw *fileWatcher) Changes() <-chan struct{} { return fw.evC }
func (fw *fileWatcher) Errors() <-chan error      { return fw.erC }
func (fw *fileWatcher) Close() error              { return fw.w.Close() }

func runWatch(e *env, args []string) int {
	if len(args) != 1 {
		return e.usageError("watch", fmt.Errorf("watch takes one hint set file"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := e.watch(ctx, args[0], nil); err != nil {
		return e.fail(err)
	}
	return exitOK
}

// watch regenerates the hint set at path once and then on every change
// until ctx ends. ready, when non-nil, is closed once the watch is armed.
func (e *env) watch(ctx context.Context, path string, ready chan<- struct{}) error {
	fw, err := newFileWatcher(path)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer fw.Close()

	e.regenerate(path)
	e.log.Info("watching %s", path)
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-fw.Changes():
			if !ok {
				return nil
			}
			e.log.Info("%s changed", path)
			e.regenerate(path)
		case err := <-fw.Errors():
			e.log.Warn("watch error: %v", err)
		}
	}
}

// regenerate reports failures through the logger and keeps watching
func (e *env) regenerate(path string) {
	set, err := loadHintSet(path)
	if err != nil {
		e.log.Error("%v", err)
		return
	}
	results, err := generateSet(e, set)
	if err != nil {
		e.log.Error("%v", err)
		return
	}
	e.printf("%s regenerated %d checks from %s\n", e.blue("=="), len(results), path)
	for _, r := range results {
		e.printFragment(r.Name, r.Fragment)
	}
}
