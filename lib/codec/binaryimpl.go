package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/value"
)

// NewBinaryCodec creates a new codec using a custom length-prefixed binary layout.
//
// Layout (all integers big endian):
//
//	magic "JKVB" | version byte
//	data:       uint32 count, then per record: string key, uint32 field count, per field: string name, value
//	indexes:    uint32 count, then per index: string name, uint32 bucket count, per bucket: string value, uint32 key count, keys
//	index_defs: uint32 count, then per def: string name, string type
//
// Strings are a uint32 length followed by the bytes. Values start with their kind byte.
func NewBinaryCodec() ICodec {
	return &binaryCodecImpl{}
}

// binaryCodecImpl implements ICodec using a custom binary format
type binaryCodecImpl struct {
}

var binaryMagic = []byte("JKVB")

const binaryVersion byte = 1

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (b binaryCodecImpl) Name() string { return NameBinary }

func (b binaryCodecImpl) Encode(snap *db.Snapshot) ([]byte, error) {
	buf := make([]byte, 0, 64+len(snap.Data)*64)
	buf = append(buf, binaryMagic...)
	buf = append(buf, binaryVersion)

	// records, sorted by key so equal snapshots encode to equal bytes
	buf = appendUint32(buf, len(snap.Data))
	for _, key := range sortedKeys(snap.Data) {
		rec := snap.Data[key]
		buf = appendString(buf, key)
		buf = appendUint32(buf, len(rec))
		for _, name := range rec.Keys() {
			buf = appendString(buf, name)
			var err error
			if buf, err = appendValue(buf, rec[name]); err != nil {
				return nil, fmt.Errorf("record %q field %q: %w", key, name, err)
			}
		}
	}

	// index contents
	buf = appendUint32(buf, len(snap.Indexes))
	for _, name := range sortedKeys(snap.Indexes) {
		buckets := snap.Indexes[name]
		buf = appendString(buf, name)
		buf = appendUint32(buf, len(buckets))
		for _, val := range sortedKeys(buckets) {
			keys := append([]string(nil), buckets[val]...)
			sort.Strings(keys)
			buf = appendString(buf, val)
			buf = appendUint32(buf, len(keys))
			for _, k := range keys {
				buf = appendString(buf, k)
			}
		}
	}

	// index definitions
	buf = appendUint32(buf, len(snap.IndexDefs))
	for _, name := range sortedKeys(snap.IndexDefs) {
		buf = appendString(buf, name)
		buf = appendString(buf, string(snap.IndexDefs[name].Type))
	}

	return buf, nil
}

func (b binaryCodecImpl) Decode(data []byte) (*db.Snapshot, error) {
	// Check header
	if len(data) < len(binaryMagic)+1 || !bytes.Equal(data[:len(binaryMagic)], binaryMagic) {
		return nil, fmt.Errorf("data is not a binary snapshot")
	}
	if v := data[len(binaryMagic)]; v != binaryVersion {
		return nil, fmt.Errorf("unsupported binary snapshot version %d", v)
	}

	r := &binaryReader{data: data, pos: len(binaryMagic) + 1}
	snap := db.NewSnapshot()

	// Read records
	n := r.readUint32("record count")
	for i := 0; i < n && r.err == nil; i++ {
		key := r.readString("record key")
		fields := r.readUint32("field count")
		rec := make(value.Record, min(fields, 1024))
		for j := 0; j < fields && r.err == nil; j++ {
			name := r.readString("field name")
			rec[name] = r.readValue(0)
		}
		snap.Data[key] = rec
	}

	// Read index contents
	n = r.readUint32("index count")
	for i := 0; i < n && r.err == nil; i++ {
		name := r.readString("index name")
		bucketCount := r.readUint32("bucket count")
		buckets := make(map[string][]string, min(bucketCount, 1024))
		for j := 0; j < bucketCount && r.err == nil; j++ {
			val := r.readString("bucket value")
			keyCount := r.readUint32("bucket size")
			keys := make([]string, 0, min(keyCount, 1024))
			for k := 0; k < keyCount && r.err == nil; k++ {
				keys = append(keys, r.readString("bucket key"))
			}
			buckets[val] = keys
		}
		snap.Indexes[name] = buckets
	}

	// Read index definitions
	n = r.readUint32("index definition count")
	for i := 0; i < n && r.err == nil; i++ {
		name := r.readString("index name")
		typ := r.readString("index type")
		snap.IndexDefs[name] = db.IndexDef{Type: db.IndexType(typ)}
	}

	if r.err != nil {
		return nil, r.err
	}
	if r.pos != len(data) {
		return nil, fmt.Errorf("unexpected %d trailing bytes", len(data)-r.pos)
	}
	return snap, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// maxDepth bounds the nesting of decoded arrays and objects
const maxDepth = 512

func appendUint32(buf []byte, n int) []byte {
	return binary.BigEndian.AppendUint32(buf, uint32(n))
}

func appendString(buf []byte, s string) []byte {
	buf = appendUint32(buf, len(s))
	return append(buf, s...)
}

func appendValue(buf []byte, v value.Value) ([]byte, error) {
	buf = append(buf, byte(v.Kind()))
	switch v.Kind() {
	case value.KindNull:
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case value.KindInt:
		i, _ := v.AsInt()
		buf = binary.BigEndian.AppendUint64(buf, uint64(i))
	case value.KindFloat:
		f, _ := v.AsFloat()
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
	case value.KindString:
		s, _ := v.AsString()
		buf = appendString(buf, s)
	case value.KindArray:
		elems, _ := v.AsArray()
		buf = appendUint32(buf, len(elems))
		for _, elem := range elems {
			var err error
			if buf, err = appendValue(buf, elem); err != nil {
				return nil, err
			}
		}
	case value.KindObject:
		obj, _ := v.AsObject()
		buf = appendUint32(buf, len(obj))
		for _, name := range obj.Keys() {
			buf = appendString(buf, name)
			var err error
			if buf, err = appendValue(buf, obj[name]); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("cannot encode %s value", v.Kind())
	}
	return buf, nil
}

// binaryReader reads from data and keeps the first error. After an error every
// read returns the zero value.
type binaryReader struct {
	data []byte
	pos  int
	err  error
}

func (r *binaryReader) need(n int, what string) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("data too short for %s", what)
		return false
	}
	return true
}

func (r *binaryReader) readUint32(what string) int {
	if !r.need(4, what) {
		return 0
	}
	n := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return int(n)
}

func (r *binaryReader) readUint64(what string) uint64 {
	if !r.need(8, what) {
		return 0
	}
	n := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return n
}

func (r *binaryReader) readByte(what string) byte {
	if !r.need(1, what) {
		return 0
	}
	b := r.data[r.pos]
	r.pos++
	return b
}

func (r *binaryReader) readString(what string) string {
	n := r.readUint32(what + " length")
	if !r.need(n, what) {
		return ""
	}
	s := string(r.data[r.pos : r.pos+n])
	r.pos += n
	return s
}

func (r *binaryReader) readValue(depth int) value.Value {
	if depth > maxDepth {
		r.err = fmt.Errorf("value nesting exceeds %d levels", maxDepth)
		return value.Value{}
	}
	kind := value.Kind(r.readByte("value kind"))
	if r.err != nil {
		return value.Value{}
	}
	switch kind {
	case value.KindNull:
		return value.Null()
	case value.KindBool:
		return value.Bool(r.readByte("bool value") != 0)
	case value.KindInt:
		return value.Int(int64(r.readUint64("int value")))
	case value.KindFloat:
		return value.Float(math.Float64frombits(r.readUint64("float value")))
	case value.KindString:
		return value.String(r.readString("string value"))
	case value.KindArray:
		n := r.readUint32("array length")
		elems := make([]value.Value, 0, min(n, 1024))
		for i := 0; i < n && r.err == nil; i++ {
			elems = append(elems, r.readValue(depth+1))
		}
		return value.Array(elems...)
	case value.KindObject:
		n := r.readUint32("object size")
		obj := make(value.Record, min(n, 1024))
		for i := 0; i < n && r.err == nil; i++ {
			name := r.readString("object field")
			obj[name] = r.readValue(depth + 1)
		}
		return value.Object(obj)
	default:
		r.err = fmt.Errorf("unknown value kind %d", kind)
		return value.Value{}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
