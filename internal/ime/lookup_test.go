package ime

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledTable(n int) *LookupTable {
	t := NewLookupTable(0, OrientationHorizontal)
	for i := 0; i < n; i++ {
		t.Append(strconv.Itoa(i))
	}
	return t
}

func TestLookupTableCursorStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	steps := []func(*LookupTable) bool{
		(*LookupTable).CursorUp,
		(*LookupTable).CursorDown,
		(*LookupTable).PageUp,
		(*LookupTable).PageDown,
	}

	for _, n := range []int{1, 2, 3, 10, 11, 25} {
		table := filledTable(n)
		for i := 0; i < 500; i++ {
			steps[rng.Intn(len(steps))](table)
			require.GreaterOrEqual(t, table.Cursor(), 0)
			require.Less(t, table.Cursor(), n)
		}
	}
}

func TestLookupTableBoundariesAreIdempotent(t *testing.T) {
	table := filledTable(3)

	assert.False(t, table.CursorUp())
	assert.Equal(t, 0, table.Cursor())

	assert.True(t, table.CursorDown())
	assert.True(t, table.CursorDown())
	assert.False(t, table.CursorDown())
	assert.False(t, table.CursorDown())
	assert.Equal(t, 2, table.Cursor())
}

func TestLookupTableEmpty(t *testing.T) {
	table := filledTable(0)
	assert.False(t, table.CursorDown())
	assert.False(t, table.CursorUp())
	assert.False(t, table.PageDown())
	assert.False(t, table.PageUp())
	assert.Empty(t, table.Page())

	_, ok := table.Candidate(0)
	assert.False(t, ok)
}

func TestLookupTablePaging(t *testing.T) {
	table := filledTable(25)

	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, table.Page())

	require.True(t, table.PageDown())
	assert.Equal(t, 10, table.Cursor())
	assert.Equal(t, 10, table.PageStart())

	require.True(t, table.PageDown())
	assert.Equal(t, 20, table.Cursor())
	assert.Equal(t, []string{"20", "21", "22", "23", "24"}, table.Page())

	table.SetCursor(23)
	require.True(t, table.PageDown())
	assert.Equal(t, 24, table.Cursor())
	assert.False(t, table.PageDown())

	table.SetCursor(4)
	require.True(t, table.PageUp())
	assert.Equal(t, 0, table.Cursor())
	assert.False(t, table.PageUp())
	assert.Equal(t, 0, table.Cursor())
}

func TestLookupTableClear(t *testing.T) {
	table := filledTable(5)
	table.SetCursor(3)
	table.Clear()
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 0, table.Cursor())
}

func TestLookupPage(t *testing.T) {
	table := filledTable(12)
	table.SetOrientation(OrientationVertical)
	table.SetCursor(11)

	page := lookupPage(table)
	assert.Equal(t, []string{"10", "11"}, page.Candidates)
	assert.Equal(t, uint32(1), page.Cursor)
	assert.Equal(t, uint32(DefaultPageSize), page.PageSize)
	assert.Equal(t, OrientationVertical, page.Orientation)
}

func TestToUint32(t *testing.T) {
	assert.Equal(t, uint32(7), toUint32(7))
	assert.Panics(t, func() { toUint32(-1) })
	if strconv.IntSize == 64 {
		maxInt := int(^uint(0) >> 1)
		assert.Panics(t, func() { toUint32(maxInt) })
	}
}

func TestParseModifiers(t *testing.T) {
	m := ParseModifiers(IBusShiftMask | IBusControlMask | IBusMod1Mask)
	assert.True(t, m.Shift())
	assert.True(t, m.Control())
	assert.True(t, m.Alt())
	assert.False(t, m.Release())
	assert.Equal(t, "Shift+Control+Alt", m.String())

	assert.True(t, ParseModifiers(IBusReleaseMask).Release())
	assert.Equal(t, "none", ParseModifiers(0).String())
	assert.NotPanics(t, func() { ParseModifiers(IBusModifierMask) })

	for _, bad := range []uint32{1 << 13, 1 << 23, 1 << 29, 1 << 31} {
		assert.Panics(t, func() { ParseModifiers(bad) }, "state 0x%x", bad)
	}
}
