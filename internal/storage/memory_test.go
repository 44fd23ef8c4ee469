package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_GetMissing(t *testing.T) {
	m := NewMemoryStorage()
	val, ok, err := m.GetItem("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestMemoryStorage_SetGetRemove(t *testing.T) {
	m := NewMemoryStorage()
	require.NoError(t, m.SetItem("k", []byte("v")))

	val, ok, err := m.GetItem("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, m.RemoveItem("k"))
	_, ok, _ = m.GetItem("k")
	assert.False(t, ok)
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	m := NewMemoryStorage()
	in := []byte("abc")
	require.NoError(t, m.SetItem("k", in))
	in[0] = 'X'

	out, _, _ := m.GetItem("k")
	assert.Equal(t, "abc", string(out))

	out[0] = 'Y'
	again, _, _ := m.GetItem("k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStorage_SnapshotAndReplace(t *testing.T) {
	m := NewMemoryStorage()
	require.NoError(t, m.SetItem("a", []byte("1")))
	snap := m.Snapshot()

	m.Replace(map[string][]byte{"b": []byte("2")})
	_, ok, _ := m.GetItem("a")
	assert.False(t, ok)
	val, ok, _ := m.GetItem("b")
	assert.True(t, ok)
	assert.Equal(t, "2", string(val))
	assert.Equal(t, "1", string(snap["a"]))
}
