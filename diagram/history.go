package diagram

// history is a bounded list of serialized snapshots with a cursor. Saving
// a state that differs from the one under the cursor discards everything
// newer than the cursor.
type history struct {
	versions []string
	index    int
	limit    int
}

func newHistory(limit int) *history {
	return &history{index: -1, limit: limit}
}

// save records state unless it is already the current version.
func (h *history) save(state string) {
	if len(h.versions) > 0 && h.versions[h.index] == state {
		return
	}
	h.index++
	h.versions = append(h.versions[:h.index], state)
	if len(h.versions) > h.limit {
		h.versions = h.versions[1:]
		h.index--
	}
}

// undo records current and steps back one version.
func (h *history) undo(current string) (string, bool) {
	h.save(current)
	if h.index <= 0 {
		return "", false
	}
	h.index--
	return h.versions[h.index], true
}

func (h *history) redo() (string, bool) {
	if h.index >= len(h.versions)-1 {
		return "", false
	}
	h.index++
	return h.versions[h.index], true
}

func (h *history) len() int {
	return len(h.versions)
}
