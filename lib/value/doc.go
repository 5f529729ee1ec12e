// Package value provides the JSON value model used for records, filters and
// index buckets.
//
// A Value is a tagged variant (null, bool, int, float, string, array, object) with
// structural equality. Numbers keep their int/float origin but compare numerically.
// Value.Key returns a stable string encoding consistent with Equal, which is what
// the secondary indexes use as bucket key.
//
// A Record (map[string]Value) is the top-level value of every database entry.
//
// Conversion helpers:
//   - FromAny / RecordFromAny: plain Go values (decoder output) to Value / Record
//   - Value.Interface / Record.Interface: the reverse direction
//   - ParseRecord / Parse: JSON text to Record / Value
//
// Values and records implement json.Marshaler, json.Unmarshaler, yaml.Marshaler
// and yaml.Unmarshaler.
package value
