package internal

import (
	"testing"

	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/stretchr/testify/assert"
)

func TestRecordStore(t *testing.T) {
	s := NewRecordStore()
	assert.Equal(t, 0, s.Len())

	_, replaced := s.Set("b", value.Record{"n": value.Int(1)})
	assert.False(t, replaced)
	old, replaced := s.Set("b", value.Record{"n": value.Int(2)})
	assert.True(t, replaced)
	assert.Equal(t, value.Int(1), old["n"])

	s.Set("a", value.Record{})
	assert.Equal(t, []string{"a", "b"}, s.Keys())
	assert.True(t, s.Exists("a"))

	removed, ok := s.Delete("b")
	assert.True(t, ok)
	assert.Equal(t, value.Int(2), removed["n"])
	_, ok = s.Delete("b")
	assert.False(t, ok)

	count := 0
	s.Range(func(string, value.Record) bool { count++; return false })
	assert.Equal(t, 1, count)

	s.Replace(nil)
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Raw())
}
