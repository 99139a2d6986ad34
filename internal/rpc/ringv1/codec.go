package ringv1

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// gobCodec implements grpc/encoding.Codec using encoding/gob instead of
// protobuf wire format. It registers itself under the name "proto" so that
// grpc-go's default content-subtype (used whenever a call doesn't specify
// one explicitly) resolves to it without every call site needing to opt in.
//
// This is only safe because every message type in this package is a plain
// exported struct with no interface or unexported fields: gob can encode all
// of them without a schema.
type gobCodec struct{}

func (gobCodec) Name() string { return "proto" }

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("ringv1: gob encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("ringv1: gob decode failed: %w", err)
	}
	return nil
}

func init() {
	encoding.RegisterCodec(gobCodec{})
}
