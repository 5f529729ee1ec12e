package codec

import (
	"fmt"
	"sort"

	"github.com/ValentinKolb/jKV/lib/db"
)

// ICodec is the interface for all snapshot codecs
type ICodec interface {
	// Name returns the name the codec is registered under
	Name() string
	// Encode serializes a snapshot into a byte array
	Encode(snap *db.Snapshot) ([]byte, error)
	// Decode deserializes a byte array into a snapshot.
	// Sections missing from the input are returned empty, never nil.
	Decode(b []byte) (*db.Snapshot, error)
}

// Codec names
const (
	NameJSON   = "json"
	NameGoJSON = "go-json"
	NameYAML   = "yaml"
	NameBinary = "binary"
)

// registry maps codec names to their factory function
var registry = map[string]func() ICodec{
	NameJSON:   NewJSONCodec,
	NameGoJSON: NewGoJSONCodec,
	NameYAML:   NewYAMLCodec,
	NameBinary: NewBinaryCodec,
}

// ByName returns the codec registered under name. The empty name selects the default
// codec. Unknown names return an error matching db.ErrUnsupportedBackend.
func ByName(name string) (ICodec, error) {
	if name == "" {
		return Default(), nil
	}
	factory, ok := registry[name]
	if !ok {
		return nil, db.NewError(db.ErrCUnsupportedBackend, "", fmt.Sprintf("unknown backend %q, available: %v", name, Names()))
	}
	return factory(), nil
}

// Default returns the fastest available codec that writes the JSON file format.
func Default() ICodec {
	return NewGoJSONCodec()
}

// Baseline returns the codec used when a requested backend is not available.
func Baseline() ICodec {
	return NewJSONCodec()
}

// Names returns all registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
