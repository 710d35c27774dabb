package dispatch

// DefaultHistorySize is the number of fingertip entries kept.
const DefaultHistorySize = 16

type historyEntry struct {
	p     Point
	valid bool
}

// History is a bounded, ordered record of recent fingertip positions.
// Frames without a usable fingertip are recorded as empty entries so that
// motion is never computed across a gap.
type History struct {
	size             int
	originIsSentinel bool
	entries          []historyEntry
}

// NewHistory creates a history holding at most size entries. When
// originIsSentinel is set, a fingertip at exactly (0,0) counts as empty.
func NewHistory(size int, originIsSentinel bool) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:             size,
		originIsSentinel: originIsSentinel,
		entries:          make([]historyEntry, 0, size+1),
	}
}

// Push appends a fingertip position.
func (h *History) Push(p Point) {
	valid := !(h.originIsSentinel && p == Point{})
	h.append(historyEntry{p: p, valid: valid})
}

// PushEmpty appends an empty entry.
func (h *History) PushEmpty() {
	h.append(historyEntry{})
}

func (h *History) append(e historyEntry) {
	h.entries = append(h.entries, e)
	if excess := len(h.entries) - h.size; excess > 0 {
		h.entries = append(h.entries[:0], h.entries[excess:]...)
	}
}

// LastTwoValid returns the two most recent entries if both hold a fingertip.
func (h *History) LastTwoValid() (prev, last Point, ok bool) {
	n := len(h.entries)
	if n < 2 {
		return Point{}, Point{}, false
	}
	a, b := h.entries[n-2], h.entries[n-1]
	if !a.valid || !b.valid {
		return Point{}, Point{}, false
	}
	return a.p, b.p, true
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cap returns the maximum number of entries.
func (h *History) Cap() int {
	return h.size
}

// Points returns the entries oldest first. Empty entries are reported as (0,0).
func (h *History) Points() []Point {
	out := make([]Point, len(h.entries))
	for i, e := range h.entries {
		if e.valid {
			out[i] = e.p
		}
	}
	return out
}
