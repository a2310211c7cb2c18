package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleItem struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

func TestReadSeedsDefaultOnFirstAccess(t *testing.T) {
	s := NewMemoryStore()

	def := []sampleItem{{Name: "áo thun", Qty: 2}}
	got := Read(s, "items", def)
	assert.Equal(t, def, got)

	// The default must now be persisted, not just returned.
	raw, ok, err := s.Get("items")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"name":"áo thun","qty":2}]`, string(raw))
}

func TestReadRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, Write(s, "items", []sampleItem{{Name: "quần jean", Qty: 1}}))

	got := Read(s, "items", []sampleItem(nil))
	require.Len(t, got, 1)
	assert.Equal(t, "quần jean", got[0].Name)
}

func TestReadCorruptSlotFallsBackToDefault(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("items", []byte(`{not json`)))

	got := Read(s, "items", []sampleItem{{Name: "fallback"}})
	require.Len(t, got, 1)
	assert.Equal(t, "fallback", got[0].Name)

	// The corrupt slot is repaired with the default.
	raw, ok, err := s.Get("items")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"name":"fallback","qty":0}]`, string(raw))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("greeting", []byte("xin chào")))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	raw, ok, err := s2.Get("greeting")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "xin chào", string(raw))
}

func TestSQLiteStoreUpsertAndDelete(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("k", []byte("v1")))
	require.NoError(t, s.Set("k", []byte("v2")))

	raw, ok, err := s.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", string(raw))

	require.NoError(t, s.Delete("k"))
	_, ok, err = s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}
