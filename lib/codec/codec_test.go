package codec

import (
	"encoding/json"
	"testing"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSnapshot creates a snapshot using every value kind
func testSnapshot() *db.Snapshot {
	snap := db.NewSnapshot()
	snap.Data["1"] = value.Record{"name": value.String("Alice"), "age": value.Int(31), "good": value.Bool(true)}
	snap.Data["2"] = value.Record{
		"name":  value.String("Bob"),
		"score": value.Float(2.5),
		"tags":  value.Array(value.String("a"), value.Int(2), value.Null()),
		"addr":  value.Object(value.Record{"city": value.String("Paris"), "zip": value.Int(75001)}),
	}
	snap.Data["empty"] = value.Record{}
	snap.Indexes["name"] = map[string][]string{"Alice": {"1"}, "Bob": {"2"}}
	snap.IndexDefs["name"] = db.IndexDef{Type: db.IndexTypeDefault}
	snap.IndexDefs["age"] = db.IndexDef{Type: db.IndexTypeLazy}
	return snap
}

func assertSnapshotEqual(t *testing.T, expected, actual *db.Snapshot) {
	t.Helper()
	require.Len(t, actual.Data, len(expected.Data))
	for key, rec := range expected.Data {
		assert.True(t, rec.Equal(actual.Data[key]), "record %q: expected %v, got %v", key, rec, actual.Data[key])
	}
	assert.Equal(t, expected.Indexes, actual.Indexes)
	assert.Equal(t, expected.IndexDefs, actual.IndexDefs)
}

// TestCodecRoundTrip tests that snapshots can be encoded and decoded by every codec
func TestCodecRoundTrip(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			snap := testSnapshot()
			data, err := c.Encode(snap)
			require.NoError(t, err)

			decoded, err := c.Decode(data)
			require.NoError(t, err)
			assertSnapshotEqual(t, snap, decoded)
		})
	}
}

// TestCodecEmptySnapshot tests that empty sections come back initialized
func TestCodecEmptySnapshot(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, _ := ByName(name)
			data, err := c.Encode(db.NewSnapshot())
			require.NoError(t, err)

			decoded, err := c.Decode(data)
			require.NoError(t, err)
			assert.NotNil(t, decoded.Data)
			assert.NotNil(t, decoded.Indexes)
			assert.NotNil(t, decoded.IndexDefs)
			assert.Empty(t, decoded.Data)
		})
	}
}

// TestJSONCodecsWriteSameDocument tests that json and go-json are interchangeable
func TestJSONCodecsWriteSameDocument(t *testing.T) {
	snap := testSnapshot()
	std, err := NewJSONCodec().Encode(snap)
	require.NoError(t, err)
	fast, err := NewGoJSONCodec().Encode(snap)
	require.NoError(t, err)
	assert.JSONEq(t, string(std), string(fast))

	decoded, err := NewJSONCodec().Decode(fast)
	require.NoError(t, err)
	assertSnapshotEqual(t, snap, decoded)
}

// TestJSONLayout tests the top-level sections of the JSON document
func TestJSONLayout(t *testing.T) {
	snap := testSnapshot()
	snap.Indexes["name"] = map[string][]string{"Alice": {"z", "1", "b"}}
	data, err := NewJSONCodec().Encode(snap)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "data")
	assert.Contains(t, doc, "indexes")
	assert.Contains(t, doc, "index_defs")
	assert.JSONEq(t, `{"name":{"Alice":["1","b","z"]}}`, string(doc["indexes"]), "key lists must be sorted")
	assert.JSONEq(t, `{"age":{"type":"lazy"},"name":{"type":"default"}}`, string(doc["index_defs"]))

	// the indexes section is omitted when empty
	snap.Indexes = map[string]map[string][]string{}
	data, err = NewJSONCodec().Encode(snap)
	require.NoError(t, err)
	doc = nil
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotContains(t, doc, "indexes")
}

// TestDecodeMissingSections tests that absent sections default to empty
func TestDecodeMissingSections(t *testing.T) {
	for _, c := range []ICodec{NewJSONCodec(), NewGoJSONCodec()} {
		snap, err := c.Decode([]byte(`{"data":{"k":{"a":1}}}`))
		require.NoError(t, err, c.Name())
		assert.Len(t, snap.Data, 1)
		assert.Empty(t, snap.Indexes)
		assert.Empty(t, snap.IndexDefs)
	}

	snap, err := NewYAMLCodec().Decode([]byte("data:\n  k:\n    a: 1\n"))
	require.NoError(t, err)
	assert.True(t, snap.Data["k"].Equal(value.Record{"a": value.Int(1)}))
}

// TestDecodeErrors tests that invalid input is rejected
func TestDecodeErrors(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, _ := ByName(name)
			_, err := c.Decode([]byte("\x00\x01 definitely { not a snapshot"))
			assert.Error(t, err)
		})
	}

	// a record must be an object
	_, err := NewJSONCodec().Decode([]byte(`{"data":{"k":"not a record"}}`))
	assert.Error(t, err)
	_, err = NewGoJSONCodec().Decode([]byte(`{"data":{"k":[1,2]}}`))
	assert.Error(t, err)
}

// TestBinaryTruncated tests that every truncation of a binary snapshot is detected
func TestBinaryTruncated(t *testing.T) {
	c := NewBinaryCodec()
	data, err := c.Encode(testSnapshot())
	require.NoError(t, err)

	for i := 0; i < len(data); i++ {
		_, err := c.Decode(data[:i])
		assert.Error(t, err, "truncated at %d of %d bytes", i, len(data))
	}

	_, err = c.Decode(append(data, 0))
	assert.Error(t, err, "trailing bytes")
}

// TestBinaryDeterministic tests that equal snapshots encode to equal bytes
func TestBinaryDeterministic(t *testing.T) {
	c := NewBinaryCodec()
	a, err := c.Encode(testSnapshot())
	require.NoError(t, err)
	b, err := c.Encode(testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestByName tests codec lookup
func TestByName(t *testing.T) {
	c, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, NameGoJSON, c.Name())

	_, err = ByName("ujson")
	assert.ErrorIs(t, err, db.ErrUnsupportedBackend)

	assert.Equal(t, []string{NameBinary, NameGoJSON, NameJSON, NameYAML}, Names())
	assert.Equal(t, NameJSON, Baseline().Name())
}
