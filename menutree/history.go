package menutree

const DefaultHistoryLimit = 50

// History records successive snapshots of one editing session so that edits
// can be undone and redone. It is not safe for concurrent use.
type History struct {
	snaps []*Tree
	cur   int
	limit int
}

// NewHistory starts a history at root. limit caps the number of snapshots
// kept; values below 2 fall back to DefaultHistoryLimit.
func NewHistory(root *Tree, limit int) *History {
	if limit < 2 {
		limit = DefaultHistoryLimit
	}
	return &History{snaps: []*Tree{root}, limit: limit}
}

func (h *History) Current() *Tree { return h.snaps[h.cur] }

// Push records t as the newest snapshot and drops anything that could have
// been redone. Pushing the current snapshot again is ignored and reports false.
func (h *History) Push(t *Tree) bool {
	if t == nil || t == h.Current() {
		return false
	}
	h.snaps = append(h.snaps[:h.cur+1], t)
	if len(h.snaps) > h.limit {
		drop := len(h.snaps) - h.limit
		h.snaps = append([]*Tree(nil), h.snaps[drop:]...)
	}
	h.cur = len(h.snaps) - 1
	return true
}

func (h *History) CanUndo() bool { return h.cur > 0 }

func (h *History) CanRedo() bool { return h.cur < len(h.snaps)-1 }

func (h *History) Undo() (*Tree, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.cur--
	return h.Current(), true
}

func (h *History) Redo() (*Tree, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.cur++
	return h.Current(), true
}

// Reset discards all recorded snapshots and starts over at t.
func (h *History) Reset(t *Tree) {
	h.snaps = []*Tree{t}
	h.cur = 0
}
