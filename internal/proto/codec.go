// Package pb defines the keyregistry.v1 gRPC service: its messages, the
// proto3 wire codec they are sent with, and the client and server bindings.
//
// The codec is registered under the content-subtype "keyregistry"; the
// client stub selects it on every call and grpc-go picks it on the server
// side from the request content-type.
package pb

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the service.
const CodecName = "keyregistry"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("%s codec: cannot marshal %T", CodecName, v)
	}
	return m.Marshal()
}

func (codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("%s codec: cannot unmarshal into %T", CodecName, v)
	}
	return m.Unmarshal(data)
}

func (codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(codec{})
}
