package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Unix(1700000000, 0)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestSuggestRanksByCount(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Record("ami", "আমি"))
	require.NoError(t, s.Record("amr", "আমার"))
	require.NoError(t, s.Record("amr", "আমার"))
	require.NoError(t, s.Record("amra", "আমরা"))
	require.NoError(t, s.Record("tmi", "তুমি"))

	words, err := s.Suggest("আম", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"আমার", "আমরা", "আমি"}, words)

	words, err = s.Suggest("আম", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"আমার"}, words)
}

func TestSuggestSumsAcrossInputs(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Record("a", "আ"))
	require.NoError(t, s.Record("aa", "আ"))
	require.NoError(t, s.Record("am", "আম"))

	words, err := s.Suggest("আ", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"আ", "আম"}, words)
}

func TestSuggestEdgeCases(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record("a", "আ"))

	words, err := s.Suggest("", 10)
	require.NoError(t, err)
	assert.Empty(t, words)

	words, err = s.Suggest("আ", 0)
	require.NoError(t, err)
	assert.Empty(t, words)

	words, err = s.Suggest("ক", 10)
	require.NoError(t, err)
	assert.Empty(t, words)

	// % and _ are not wildcards
	require.NoError(t, s.Record("x", "100%"))
	words, err = s.Suggest("1_0", 10)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestPreferred(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Preferred("ami")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Record("ami", "আমি"))
	require.NoError(t, s.Record("ami", "আমী"))
	require.NoError(t, s.Record("ami", "আমী"))

	word, ok, err := s.Preferred("ami")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "আমী", word)

	// ties go to the most recent
	require.NoError(t, s.Record("ami", "আমি"))
	word, _, err = s.Preferred("ami")
	require.NoError(t, err)
	assert.Equal(t, "আমি", word)
}

func TestRecordIgnoresEmpty(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record("", "আ"))
	require.NoError(t, s.Record("a", ""))

	_, ok, err := s.Preferred("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record("ami", "আমি"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	word, ok, err := s.Preferred("ami")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "আমি", word)
}

func TestClosed(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Record("a", "আ"), ErrClosed)
	_, err := s.Suggest("আ", 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, _, err = s.Preferred("a")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Ping(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPingCountsSelections(t *testing.T) {
	s := openTestStore(t)
	n, err := s.Ping(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.Record("ami", "আমি"))
	require.NoError(t, s.Record("ami", "আমি"))
	require.NoError(t, s.Record("a", "আ"))
	n, err = s.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
