package llm

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCTransport is a Transport implementation calling a local model-runtime
// sidecar over gRPC. It uses insecure (plaintext) transport, matching the
// teacher's own local-sidecar LLM client — the sidecar is expected to run on
// localhost, never across a network boundary.
type GRPCTransport struct {
	conn *grpc.ClientConn
}

// NewGRPCTransport dials addr (e.g. "127.0.0.1:50061") without blocking;
// connection errors surface on the first Complete call.
func NewGRPCTransport(addr string) (*GRPCTransport, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("create LLM sidecar client for %s: %w", addr, err)
	}
	return &GRPCTransport{conn: conn}, nil
}

// Complete invokes a unary RPC method (e.g. "/anna.llm.v1.Sidecar/Translate")
// with request marshaled to JSON and response unmarshaled from the reply.
func (t *GRPCTransport) Complete(ctx context.Context, method string, request, response any) error {
	if err := t.conn.Invoke(ctx, method, request, response, grpc.ForceCodec(jsonCodec{})); err != nil {
		return fmt.Errorf("LLM sidecar call %s failed: %w", method, err)
	}
	return nil
}

// Close releases the underlying gRPC connection.
func (t *GRPCTransport) Close() error {
	return t.conn.Close()
}
