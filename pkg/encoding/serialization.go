package encoding

import (
	"bytes"
	"encoding/json"

	"github.com/zeusync/htmlbox/pkg/generic"
)

// Serializable provides a clean, simple interface for serializing and deserializing values.
type Serializable interface {
	Serialize() ([]byte, error)
	Deserialize([]byte) error
}

var buffers = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, func(b *bytes.Buffer) { b.Reset() })

// MarshalJSON encodes v without the trailing newline json.Encoder adds and
// without escaping HTML, so face markup travels unchanged.
func MarshalJSON(v any) ([]byte, error) {
	buf := buffers.Get()
	defer buffers.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	return bytes.Clone(out), nil
}

// UnmarshalJSON decodes data into v, rejecting unknown fields.
func UnmarshalJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
