package llm

import "encoding/json"

// jsonCodec is a grpc/encoding.Codec that marshals request/response payloads
// as JSON instead of protobuf wire format. The Translator Adapter's sidecar
// contract is a single small JSON object per call, so this avoids depending
// on a protoc-generated client for a one-method service; it is installed
// per-call via grpc.ForceCodec rather than registered globally, so it never
// interferes with any other gRPC client sharing the process.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}
