package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnswerWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.json")
	f, err := openFileField(path, time.Hour, false, zap.NewNop())
	require.NoError(t, err)

	changes := make(chan string, 4)
	w, err := newAnswerWatcher(f, func(content string) { changes <- content }, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	f.SetValue("ours")
	require.NoError(t, f.Flush())
	select {
	case c := <-changes:
		t.Fatalf("own write reported as a change: %q", c)
	case <-time.After(3 * watchDebounce):
	}

	require.NoError(t, os.WriteFile(path, []byte("theirs"), 0644))
	select {
	case c := <-changes:
		assert.Equal(t, "theirs", c)
	case <-time.After(5 * time.Second):
		t.Fatal("external write not reported")
	}
}
