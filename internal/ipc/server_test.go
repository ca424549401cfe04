package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjgarcianorway/annad/internal/fact"
	"github.com/jjgarcianorway/annad/internal/knowledge"
	"github.com/jjgarcianorway/annad/internal/llm"
	"github.com/jjgarcianorway/annad/internal/pipeline"
	"github.com/jjgarcianorway/annad/internal/probe"
)

// stubTransport returns a fixed reply regardless of request, so tests can
// drive the translator deterministically without a real sidecar.
type stubTransport struct{ reply string }

func (s *stubTransport) Complete(_ context.Context, _ string, _ any, response any) error {
	return json.Unmarshal([]byte(s.reply), response)
}
func (s *stubTransport) Close() error { return nil }

const testDFOutput = "Filesystem      Size  Used Avail Use% Mounted on\n/dev/sda1        50G   37G   13G  75% /\n"

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	c := probe.StandardCatalog()
	errs := c.ApplyOverrides(map[string]probe.Definition{
		"disk.df":        {Description: "fixture", Command: "echo", Args: []string{"-n", testDFOutput}, Cost: probe.CostCheap},
		"mem.free":       {Description: "fixture", Command: "echo", Args: []string{"-n", ""}, Cost: probe.CostCheap},
		"svc.status_all": {Description: "fixture", Command: "echo", Args: []string{"-n", ""}, Cost: probe.CostCheap},
	})
	require.Empty(t, errs)

	reply := `{"intent":"question","domain":"storage","needs_probes":["disk.df"],"confidence":0.9}`
	svc := &pipeline.Service{
		Catalog:           c,
		Runner:            probe.NewRunner(c, 4, 1<<16),
		Translator:        llm.NewAdapter(&stubTransport{reply: reply}, nil),
		Facts:             fact.NewMemStore(nil),
		Docs:              knowledge.NewMemDocStore(),
		FallbackTemplate:  "Could you say more?",
		ResolvedThreshold: 60,
		Tickets:           pipeline.NewTicketStore(0),
	}

	advisor := pipeline.NewAdvisor(probe.NewRunner(c, 4, 1<<16), "sysadmin", 0)
	advisor.RunOnce(context.Background(), time.Now())

	socketPath := filepath.Join(t.TempDir(), "annad.sock")
	server := &Server{SocketPath: socketPath, Service: svc, Facts: svc.Facts, Advisor: advisor}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ready := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			if _, err := net.Dial("unix", socketPath); err == nil {
				close(ready)
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()
	go func() { _ = server.Serve(ctx) }()

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("ipc server never became reachable")
	}
	t.Cleanup(func() { _ = server.Close() })

	return server, socketPath
}

func rpcCall(t *testing.T, socketPath, method string, params any) Response {
	t.Helper()

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	defer conn.Close()

	var rawParams json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		require.NoError(t, err)
		rawParams = encoded
	}

	req := Request{JSONRPC: "2.0", Method: method, Params: rawParams, ID: json.RawMessage(`1`)}
	line, err := json.Marshal(req)
	require.NoError(t, err)

	_, err = conn.Write(append(line, '\n'))
	require.NoError(t, err)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	require.True(t, scanner.Scan())

	var resp Response
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
	return resp
}

func TestServerQueryMethod(t *testing.T) {
	_, socketPath := startTestServer(t)

	resp := rpcCall(t, socketPath, "query", map[string]string{"text": "how much disk space is left?"})
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, result["answer"])
	assert.NotEmpty(t, result["transcript_id"])
}

func TestServerTicketGetRoundTrip(t *testing.T) {
	_, socketPath := startTestServer(t)

	queryResp := rpcCall(t, socketPath, "query", map[string]string{"text": "how much disk space is left?"})
	require.Nil(t, queryResp.Error)
	result := queryResp.Result.(map[string]any)
	ticketData := result["ticket"].(map[string]any)
	id := ticketData["ID"].(string)

	getResp := rpcCall(t, socketPath, "ticket.get", map[string]string{"id": id})
	require.Nil(t, getResp.Error)
	assert.NotNil(t, getResp.Result)
}

func TestServerTicketGetUnknownID(t *testing.T) {
	_, socketPath := startTestServer(t)

	resp := rpcCall(t, socketPath, "ticket.get", map[string]string{"id": "does-not-exist"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestServerFactsQuery(t *testing.T) {
	_, socketPath := startTestServer(t)

	rpcCall(t, socketPath, "query", map[string]string{"text": "how much disk space is left?"})

	resp := rpcCall(t, socketPath, "facts.query", map[string]string{"entity": "disk:/"})
	require.Nil(t, resp.Error)
	facts, ok := resp.Result.([]any)
	require.True(t, ok)
	assert.NotEmpty(t, facts)
}

func TestServerSnapshot(t *testing.T) {
	_, socketPath := startTestServer(t)

	resp := rpcCall(t, socketPath, "snapshot", nil)
	require.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}

func TestServerAdviceList(t *testing.T) {
	_, socketPath := startTestServer(t)

	resp := rpcCall(t, socketPath, "advice.list", nil)
	require.Nil(t, resp.Error)
	_, ok := resp.Result.([]any)
	assert.True(t, ok)
}

func TestServerUnknownMethod(t *testing.T) {
	_, socketPath := startTestServer(t)

	resp := rpcCall(t, socketPath, "bogus.method", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestServerInvalidJSONReturnsParseError(t *testing.T) {
	_, socketPath := startTestServer(t)

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("{not json\n"))
	require.NoError(t, err)

	scanner := bufio.NewScanner(conn)
	require.True(t, scanner.Scan())

	var resp Response
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeParseError, resp.Error.Code)
}
