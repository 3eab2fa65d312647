package cache

import (
	"github.com/bytedance/sonic"
)

// Codec turns values into stored bytes and back
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, v any) error
}

type sonicCodec struct{ api sonic.API }

func (c sonicCodec) Marshal(v any) ([]byte, error)   { return c.api.Marshal(v) }
func (c sonicCodec) Unmarshal(b []byte, v any) error { return c.api.Unmarshal(b, v) }

// JSON is the default codec, std compatible json via sonic
var JSON Codec = sonicCodec{api: sonic.ConfigStd}
