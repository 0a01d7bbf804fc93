package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_SetGetDelete(t *testing.T) {
	s := NewMemoryStorage()

	require.NoError(t, s.Set("state", []byte("abc"), 0))
	val, err := s.Get("state")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), val)

	require.NoError(t, s.Delete("state"))
	val, err = s.Get("state")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestMemoryStorage_Expiry(t *testing.T) {
	s := NewMemoryStorage()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set("state", []byte("abc"), time.Minute))

	now = now.Add(59 * time.Second)
	val, _ := s.Get("state")
	assert.Equal(t, []byte("abc"), val)

	now = now.Add(time.Second)
	val, _ = s.Get("state")
	assert.Nil(t, val)
}

func TestMemoryStorage_IgnoresEmptyValues(t *testing.T) {
	s := NewMemoryStorage()
	require.NoError(t, s.Set("", []byte("x"), 0))
	require.NoError(t, s.Set("k", nil, 0))

	val, _ := s.Get("k")
	assert.Nil(t, val)

	require.NoError(t, s.Set("k", []byte("v"), 0))
	require.NoError(t, s.Reset())
	val, _ = s.Get("k")
	assert.Nil(t, val)
}
