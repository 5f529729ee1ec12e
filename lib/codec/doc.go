// Package codec encodes and decodes database snapshots for the store file. It
// defines a common interface and multiple implementations selected by name.
//
// Key Components:
//
//   - ICodec: Core interface that all codec implementations must satisfy.
//
//   - jsonCodecImpl ("json"): encoding/json. The baseline that is always available
//     and the fallback for unknown backend names.
//
//   - goJSONCodecImpl ("go-json", default): goccy/go-json. Writes the same document
//     as the json codec, so files can be read by either.
//
//   - yamlCodecImpl ("yaml"): the same document as YAML, useful for hand editing.
//
//   - binaryCodecImpl ("binary"): custom length-prefixed layout with a magic header.
//     Smallest payload and no float formatting, but not human-readable.
//
// File Layout:
//
// The text codecs write a single document with three sections:
//
//	{
//	  "data":       {"<key>": {<record>}, ...},
//	  "indexes":    {"<field>": {"<value>": ["<key>", ...]}},  // omitted when empty
//	  "index_defs": {"<field>": {"type": "default" | "lazy"}}
//	}
//
// Key lists are sorted so that equal snapshots produce equal files.
//
// Thread Safety:
//
//	All codec implementations are stateless and safe for concurrent use.
package codec
