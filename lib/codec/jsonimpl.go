package codec

import (
	"bytes"
	"encoding/json"

	"github.com/ValentinKolb/jKV/lib/db"
)

// NewJSONCodec creates a new codec using the standard library json encoding
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ICodec interface using encoding/json
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Name() string { return NameJSON }

func (j jsonCodecImpl) Encode(snap *db.Snapshot) ([]byte, error) {
	return json.Marshal(toWire(snap))
}

func (j jsonCodecImpl) Decode(b []byte) (*db.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var w wireSnapshot
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}
	return fromWire(&w)
}
