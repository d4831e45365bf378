package browsercache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteCategory_SortsAndRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	err = store.WriteCategory("drums", []Entry{
		{Name: "Zebra Kit", Category: "drums", Path: "drums/Zebra Kit"},
		{Name: "Analog Kit", Category: "drums", Path: "drums/Analog Kit", URI: "query:drums#analog"},
	})
	require.NoError(t, err)

	reader := NewReader(dir)
	entries, err := reader.SearchCache("", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Analog Kit", entries[0].Name)
	assert.Equal(t, "Zebra Kit", entries[1].Name)
}

func TestStore_WriteCategory_OverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.WriteCategory("samples", []Entry{{Name: "Old", Category: "samples"}}))
	require.NoError(t, store.WriteCategory("samples", []Entry{{Name: "New", Category: "samples"}}))

	reader := NewReader(dir)
	entries, err := reader.SearchCache("", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "New", entries[0].Name)
}
