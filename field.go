package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// fileField backs a widget with a file. Values are kept in memory at once
// and written to disk after delay without further changes.
type fileField struct {
	mu          sync.Mutex
	path        string
	value       string
	readOnly    bool
	delay       time.Duration
	timer       *time.Timer
	dirty       bool
	lastWritten string
	logger      *zap.Logger
}

func openFileField(path string, delay time.Duration, readOnly bool, logger *zap.Logger) (*fileField, error) {
	f := &fileField{
		path:     path,
		delay:    delay,
		readOnly: readOnly,
		logger:   logger,
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		f.value = string(data)
		f.lastWritten = f.value
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("open answer: %w", err)
	}
	return f, nil
}

func (f *fileField) ID() string {
	return filepath.Base(f.path)
}

func (f *fileField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *fileField) ReadOnly() bool {
	return f.readOnly
}

func (f *fileField) SetValue(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v == f.value {
		return
	}
	f.value = v
	f.dirty = true
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.delay, func() {
		if err := f.Flush(); err != nil {
			f.logger.Error("write answer", zap.String("path", f.path), zap.Error(err))
		}
	})
}

// Replace sets the value without scheduling a write, for content that was
// read from disk.
func (f *fileField) Replace(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
	f.lastWritten = v
	f.dirty = false
}

// Flush writes a pending value now.
func (f *fileField) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return nil
	}
	if err := os.WriteFile(f.path, []byte(f.value), 0644); err != nil {
		return err
	}
	f.lastWritten = f.value
	f.dirty = false
	f.logger.Debug("answer written", zap.String("path", f.path), zap.Int("bytes", len(f.value)))
	return nil
}

// IsOwnWrite reports whether content is what this field last wrote or
// holds, so watcher events caused by our own writes can be ignored.
func (f *fileField) IsOwnWrite(content string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return content == f.lastWritten || content == f.value
}

func (f *fileField) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

func (f *fileField) Close() error {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()
	return f.Flush()
}
