// Package tgatev1 holds the transfer gate's gRPC contract: request and response
// messages, service descriptors and client stubs. Messages travel as JSON under
// the "json" content-subtype.
package tgatev1

import (
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of every tgate.v1 call.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec encodes messages as JSON.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return CodecName
}

// CallOption selects the JSON codec on a client call. Pass it to
// grpc.WithDefaultCallOptions when dialing.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
