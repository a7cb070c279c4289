package ime

import (
	"fmt"
	"math"
)

// Orientation is the candidate window layout, with IBus's values.
type Orientation int32

const (
	OrientationHorizontal Orientation = 0
	OrientationVertical   Orientation = 1
)

func (o Orientation) String() string {
	if o == OrientationVertical {
		return "vertical"
	}
	return "horizontal"
}

// DefaultPageSize is the number of candidates shown per page.
const DefaultPageSize = 10

// LookupTable is the ordered candidate list with a cursor.
//
// The cursor saturates at both ends; it never wraps.
type LookupTable struct {
	candidates  []string
	cursor      int
	pageSize    int
	orientation Orientation
}

// NewLookupTable creates an empty table. A non-positive pageSize selects
// DefaultPageSize.
func NewLookupTable(pageSize int, orientation Orientation) *LookupTable {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &LookupTable{pageSize: pageSize, orientation: orientation}
}

func (t *LookupTable) Len() int                     { return len(t.candidates) }
func (t *LookupTable) PageSize() int                { return t.pageSize }
func (t *LookupTable) Orientation() Orientation     { return t.orientation }
func (t *LookupTable) SetOrientation(o Orientation) { t.orientation = o }
func (t *LookupTable) Append(candidate string)      { t.candidates = append(t.candidates, candidate) }
func (t *LookupTable) Candidates() []string         { return append([]string(nil), t.candidates...) }
func (t *LookupTable) Cursor() int                  { return t.cursor }

// Clear removes every candidate and rewinds the cursor.
func (t *LookupTable) Clear() {
	t.candidates = t.candidates[:0]
	t.cursor = 0
}

// Candidate returns the candidate at index.
func (t *LookupTable) Candidate(index int) (string, bool) {
	if index < 0 || index >= len(t.candidates) {
		return "", false
	}
	return t.candidates[index], true
}

// SetCursor moves the cursor to index when it is in range.
func (t *LookupTable) SetCursor(index int) bool {
	if index < 0 || index >= len(t.candidates) {
		return false
	}
	t.cursor = index
	return true
}

// CursorDown advances the cursor by one. It reports whether it moved.
func (t *LookupTable) CursorDown() bool {
	return t.SetCursor(t.cursor + 1)
}

// CursorUp retreats the cursor by one. It reports whether it moved.
func (t *LookupTable) CursorUp() bool {
	return t.SetCursor(t.cursor - 1)
}

// PageDown jumps one page forward, stopping at the last candidate.
func (t *LookupTable) PageDown() bool {
	if len(t.candidates) == 0 {
		return false
	}
	return t.jump(min(t.cursor+t.pageSize, len(t.candidates)-1))
}

// PageUp jumps one page back, stopping at the first candidate.
func (t *LookupTable) PageUp() bool {
	if len(t.candidates) == 0 {
		return false
	}
	return t.jump(max(t.cursor-t.pageSize, 0))
}

// jump is SetCursor for page steps, which saturate at the ends and so
// may land where the cursor already is.
func (t *LookupTable) jump(index int) bool {
	if index == t.cursor {
		return false
	}
	return t.SetCursor(index)
}

// PageStart is the index of the first candidate on the cursor's page.
func (t *LookupTable) PageStart() int {
	return t.cursor - t.cursor%t.pageSize
}

// Page returns the candidates on the cursor's page.
func (t *LookupTable) Page() []string {
	start := t.PageStart()
	end := min(start+t.pageSize, len(t.candidates))
	if start >= end {
		return nil
	}
	return append([]string(nil), t.candidates[start:end]...)
}

// toUint32 narrows a count or index for the wire. A value that does not fit
// means the table outgrew what the display can address.
func toUint32(n int) uint32 {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic(fmt.Sprintf("ime: lookup table index %d does not fit in uint32", n))
	}
	return uint32(n)
}
