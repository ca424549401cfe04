package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/jjgarcianorway/annad/internal/fact"
	"github.com/jjgarcianorway/annad/internal/pipeline"
	"github.com/jjgarcianorway/annad/internal/ticket"
)

// Server serves the JSON-RPC method table over a Unix domain socket (spec
// §6). Each connection is read line by line — one JSON object per line — so
// a single long-lived CLI connection can issue many requests.
type Server struct {
	SocketPath string
	Service    *pipeline.Service
	Facts      fact.Store
	Advisor    *pipeline.Advisor
	Logger     *slog.Logger

	listener net.Listener
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Serve binds the Unix socket at SocketPath and accepts connections until
// ctx is cancelled. A pre-existing socket file at the same path is removed
// first, matching the usual daemon-restart idiom for Unix sockets.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.Remove(s.SocketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ipc: remove stale socket %s: %w", s.SocketPath, err)
	}

	listener, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return fmt.Errorf("ipc: listen on %s: %w", s.SocketPath, err)
	}
	s.listener = listener

	if err := os.Chmod(s.SocketPath, 0o660); err != nil {
		s.logger().Warn("ipc: chmod socket failed", "path", s.SocketPath, "error", err)
	}

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	s.logger().Info("ipc: listening", "socket", s.SocketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger().Warn("ipc: accept failed", "error", err)
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := s.dispatch(ctx, line)
		encoded, err := json.Marshal(resp)
		if err != nil {
			s.logger().Error("ipc: marshal response failed", "error", err)
			return
		}
		encoded = append(encoded, '\n')
		if _, err := conn.Write(encoded); err != nil {
			s.logger().Warn("ipc: write response failed", "error", err)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(nil, CodeParseError, "invalid JSON: "+err.Error())
	}

	switch req.Method {
	case "query":
		return s.handleQuery(ctx, req)
	case "ticket.get":
		return s.handleTicketGet(req)
	case "facts.query":
		return s.handleFactsQuery(ctx, req)
	case "snapshot":
		return s.handleSnapshot(req)
	case "advice.list":
		return s.handleAdviceList(req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "unknown method: "+req.Method)
	}
}

// queryParams mirrors spec §6's `{text, locale?}` query params.
type queryParams struct {
	Text   string `json:"text"`
	Locale string `json:"locale,omitempty"`
}

// queryResult mirrors spec §6's `{answer, reliability, transcript_id,
// ticket}` query result.
type queryResult struct {
	Answer       string        `json:"answer"`
	Reliability  reliabilityJSON `json:"reliability"`
	TranscriptID string        `json:"transcript_id"`
	Ticket       *ticket.Ticket `json:"ticket"`
}

type reliabilityJSON struct {
	Value int    `json:"value"`
	Band  string `json:"band"`
}

func (s *Server) handleQuery(ctx context.Context, req Request) Response {
	var params queryParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "invalid query params: "+err.Error())
	}
	if params.Text == "" {
		return errorResponse(req.ID, CodeInvalidParams, "query params.text is required")
	}

	result := s.Service.HandleQuery(ctx, params.Text)
	return resultResponse(req.ID, queryResult{
		Answer: result.Answer,
		Reliability: reliabilityJSON{
			Value: result.Reliability.Value,
			Band:  string(result.Reliability.Band),
		},
		TranscriptID: result.TranscriptID,
		Ticket:       result.Ticket,
	})
}

type ticketGetParams struct {
	ID string `json:"id"`
}

func (s *Server) handleTicketGet(req Request) Response {
	var params ticketGetParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "invalid ticket.get params: "+err.Error())
	}
	if s.Service == nil || s.Service.Tickets == nil {
		return errorResponse(req.ID, CodeInternalError, "ticket store not configured")
	}
	t, ok := s.Service.Tickets.Get(params.ID)
	if !ok {
		return errorResponse(req.ID, CodeInvalidParams, "unknown ticket id: "+params.ID)
	}
	return resultResponse(req.ID, t)
}

// factQueryParams mirrors fact.Query with JSON tags, since fact.Query itself
// carries no wire format (its only other caller is in-process).
type factQueryParams struct {
	Entity        string       `json:"entity,omitempty"`
	Attribute     string       `json:"attribute,omitempty"`
	MinConfidence float64      `json:"min_confidence,omitempty"`
	Status        []fact.Status `json:"status,omitempty"`
	SeenAfter     *time.Time   `json:"seen_after,omitempty"`
	Limit         int          `json:"limit,omitempty"`
}

func (s *Server) handleFactsQuery(ctx context.Context, req Request) Response {
	var params factQueryParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInvalidParams, "invalid facts.query params: "+err.Error())
		}
	}
	if s.Facts == nil {
		return resultResponse(req.ID, []fact.Fact{})
	}

	facts, err := s.Facts.Query(ctx, fact.Query{
		Entity:        params.Entity,
		Attribute:     params.Attribute,
		MinConfidence: params.MinConfidence,
		Status:        params.Status,
		SeenAfter:     params.SeenAfter,
		Limit:         params.Limit,
	})
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, "facts.query failed: "+err.Error())
	}
	return resultResponse(req.ID, facts)
}

func (s *Server) handleSnapshot(req Request) Response {
	if s.Advisor == nil {
		return errorResponse(req.ID, CodeInternalError, "advisor not configured")
	}
	snap, ok := s.Advisor.Last()
	if !ok {
		return resultResponse(req.ID, nil)
	}
	return resultResponse(req.ID, snap)
}

func (s *Server) handleAdviceList(req Request) Response {
	if s.Advisor == nil {
		return resultResponse(req.ID, []any{})
	}
	return resultResponse(req.ID, s.Advisor.List())
}
