package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 200 * time.Millisecond

// answerWatcher reports edits made to the answer file by other programs.
type answerWatcher struct {
	path     string
	field    *fileField
	onChange func(content string)
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
}

func newAnswerWatcher(field *fileField, onChange func(string), logger *zap.Logger) (*answerWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(field.path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}
	// Watch the directory: editors often replace the file rather than
	// writing it in place.
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &answerWatcher{
		path:     abs,
		field:    field,
		onChange: onChange,
		logger:   logger,
		watcher:  fsWatcher,
		stopCh:   make(chan struct{}),
	}
	go w.watchLoop()
	logger.Info("watching answer file", zap.String("path", abs))
	return w, nil
}

func (w *answerWatcher) watchLoop() {
	defer w.watcher.Close()

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != w.path {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

func (w *answerWatcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("cannot read changed answer", zap.String("path", w.path), zap.Error(err))
		return
	}
	content := string(data)
	if w.field.IsOwnWrite(content) {
		return
	}
	w.logger.Info("answer changed on disk", zap.String("path", w.path))
	w.onChange(content)
}

func (w *answerWatcher) Stop() {
	close(w.stopCh)
}
