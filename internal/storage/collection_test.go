package storage

import (
	"errors"
	"testing"
	"trustive/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStorage) GetItem(_ string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return nil, false, nil
}

func (f *failingStorage) SetItem(_ string, _ []byte) error {
	f.sets++
	return f.setErr
}

func (f *failingStorage) RemoveItem(_ string) error { return nil }

func seedNames() []string { return []string{"a", "b"} }

func TestCollection_LoadSeedsAbsentSlot(t *testing.T) {
	kv := NewMemoryStorage()
	c := NewCollection(kv, "names", seedNames, &testutil.MockLogger{})

	assert.Equal(t, []string{"a", "b"}, c.Load())

	raw, ok, err := kv.GetItem("names")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, string(raw))
}

func TestCollection_LoadReturnsStored(t *testing.T) {
	kv := NewMemoryStorage()
	require.NoError(t, kv.SetItem("names", []byte(`["x"]`)))
	c := NewCollection(kv, "names", seedNames, &testutil.MockLogger{})

	assert.Equal(t, []string{"x"}, c.Load())
}

func TestCollection_CorruptSlotNotRepaired(t *testing.T) {
	kv := NewMemoryStorage()
	require.NoError(t, kv.SetItem("names", []byte(`{not json`)))
	logger := &testutil.MockLogger{}
	c := NewCollection(kv, "names", seedNames, logger)

	assert.Equal(t, []string{"a", "b"}, c.Load())
	assert.Equal(t, 1, logger.Count("error"))

	raw, _, _ := kv.GetItem("names")
	assert.Equal(t, `{not json`, string(raw))
}

func TestCollection_UnreadableSlot(t *testing.T) {
	kv := &failingStorage{getErr: errors.New("disk gone")}
	logger := &testutil.MockLogger{}
	c := NewCollection(kv, "names", seedNames, logger)

	assert.Equal(t, []string{"a", "b"}, c.Load())
	assert.Equal(t, 0, kv.sets)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestCollection_SeedWriteFailureIsLogged(t *testing.T) {
	kv := &failingStorage{setErr: errors.New("quota exceeded")}
	logger := &testutil.MockLogger{}
	c := NewCollection(kv, "names", seedNames, logger)

	assert.Equal(t, []string{"a", "b"}, c.Load())
	assert.Equal(t, 1, kv.sets)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestCollection_PeekNeverWrites(t *testing.T) {
	kv := NewMemoryStorage()
	c := NewCollection(kv, "names", seedNames, &testutil.MockLogger{})

	val, ok := c.Peek()
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, val)
	_, present, _ := kv.GetItem("names")
	assert.False(t, present)

	require.NoError(t, c.Save([]string{"z"}))
	val, ok = c.Peek()
	assert.True(t, ok)
	assert.Equal(t, []string{"z"}, val)
}

func TestCollection_SaveWrapsError(t *testing.T) {
	cause := errors.New("quota exceeded")
	c := NewCollection[[]string](&failingStorage{setErr: cause}, "names", seedNames, &testutil.MockLogger{})

	err := c.Save([]string{"q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "names")
}

func TestCollection_Clear(t *testing.T) {
	kv := NewMemoryStorage()
	c := NewCollection(kv, "names", seedNames, &testutil.MockLogger{})
	require.NoError(t, c.Save([]string{"z"}))

	require.NoError(t, c.Clear())
	_, present, _ := kv.GetItem("names")
	assert.False(t, present)
	assert.Equal(t, "names", c.Key())
}
