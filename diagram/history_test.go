package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_SaveDedupesAndCaps(t *testing.T) {
	h := newHistory(3)

	h.save("a")
	h.save("a")
	assert.Equal(t, 1, h.len())

	h.save("b")
	h.save("c")
	h.save("d")
	assert.Equal(t, 3, h.len())
	assert.Equal(t, []string{"b", "c", "d"}, h.versions)
}

func TestHistory_UndoRedo(t *testing.T) {
	h := newHistory(MaxVersions)
	h.save("a")
	h.save("b")

	got, ok := h.undo("c")
	assert.True(t, ok)
	assert.Equal(t, "b", got)
	got, ok = h.undo("b")
	assert.True(t, ok)
	assert.Equal(t, "a", got)
	_, ok = h.undo("a")
	assert.False(t, ok)

	got, ok = h.redo()
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	// A new state drops everything newer than the cursor.
	h.save("x")
	_, ok = h.redo()
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "x"}, h.versions)
}
