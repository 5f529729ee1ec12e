package codec

import (
	"github.com/ValentinKolb/jKV/lib/db"
	"gopkg.in/yaml.v3"
)

// NewYAMLCodec creates a new codec writing the snapshot as a YAML document
func NewYAMLCodec() ICodec {
	return &yamlCodecImpl{}
}

// yamlCodecImpl implements the ICodec interface using yaml.v3
type yamlCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (y yamlCodecImpl) Name() string { return NameYAML }

func (y yamlCodecImpl) Encode(snap *db.Snapshot) ([]byte, error) {
	return yaml.Marshal(toWire(snap))
}

func (y yamlCodecImpl) Decode(b []byte) (*db.Snapshot, error) {
	var w wireSnapshot
	if err := yaml.Unmarshal(b, &w); err != nil {
		return nil, err
	}
	return fromWire(&w)
}
