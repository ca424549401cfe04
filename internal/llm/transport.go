package llm

import "context"

// Transport is the minimal wire contract the Translator Adapter needs from
// an LLM collaborator: send a JSON-shaped prompt, get a JSON-shaped reply.
// GRPCTransport is the production implementation; tests supply a fake.
type Transport interface {
	Complete(ctx context.Context, method string, request, response any) error
	Close() error
}
