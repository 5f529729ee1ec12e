package codec

import (
	"bytes"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/goccy/go-json"
)

// NewGoJSONCodec creates a new codec using goccy/go-json. It writes the same
// document as the json codec.
func NewGoJSONCodec() ICodec {
	return &goJSONCodecImpl{}
}

// goJSONCodecImpl implements the ICodec interface using goccy/go-json
type goJSONCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (g goJSONCodecImpl) Name() string { return NameGoJSON }

func (g goJSONCodecImpl) Encode(snap *db.Snapshot) ([]byte, error) {
	return json.Marshal(toWire(snap))
}

func (g goJSONCodecImpl) Decode(b []byte) (*db.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var w wireSnapshot
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}
	return fromWire(&w)
}
