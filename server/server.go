// Package server exposes the conversation loop over WebSocket. Each
// connection gets its own session and its own short-term memory tier; the
// file and semantic tiers are shared, matching their durability semantics.
package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mementolabs/memento-go-sdk/core"
	"github.com/mementolabs/memento-go-sdk/engine"
	"github.com/mementolabs/memento-go-sdk/memory"
	"github.com/mementolabs/memento-go-sdk/tools"
)

// Config configures the server.
type Config struct {
	// Model is the model client used by every connection's engine.
	Model engine.ModelClient

	// SystemPrompt overrides the default prompt when set.
	SystemPrompt string

	// File is the shared long-term file tier. Optional.
	File *memory.FileStore

	// Semantic is the shared long-term semantic tier. Optional.
	Semantic *memory.SemanticStore
}

// Server serves the chat loop at /ws and liveness at /health.
//
// The built-in memory tools are registered automatically; they must bind to
// each connection's own short-term tier, so the server builds a fresh
// registry per connection rather than sharing one. Domain tools added via
// AddTools are shared across connections and must be safe for concurrent
// use.
type Server struct {
	cfg      Config
	extra    []core.Tool
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a server from the config.
func New(cfg Config) (*Server, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("Model is required")
	}

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	s.mux = mux
	return s, nil
}

// AddTool registers a domain tool advertised to every connection. Must be
// called before Run.
func (s *Server) AddTool(t core.Tool) {
	s.extra = append(s.extra, t)
}

// AddTools registers several domain tools.
func (s *Server) AddTools(ts ...core.Tool) {
	s.extra = append(s.extra, ts...)
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("[SERVER] listening on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// Handler returns the HTTP handler, for callers that manage their own
// listener.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// frame is the wire shape for both directions.
type frame struct {
	Type string `json:"type"` // "user", "assistant", "error"
	Text string `json:"text"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Fresh short-term tier per connection; shared durable tiers.
	tiers := &memory.Tiers{
		Notes:    memory.NewNoteStore(),
		File:     s.cfg.File,
		Semantic: s.cfg.Semantic,
	}

	registry := engine.NewToolRegistry()
	if err := registry.RegisterAll(tools.MemoryTools(tiers)...); err != nil {
		log.Printf("[SERVER] registering memory tools: %v", err)
		return
	}
	if err := registry.RegisterAll(s.extra...); err != nil {
		log.Printf("[SERVER] registering domain tools: %v", err)
		return
	}

	opts := []engine.Option{engine.WithMemory(tiers)}
	if s.cfg.SystemPrompt != "" {
		opts = append(opts, engine.WithSystemPrompt(s.cfg.SystemPrompt))
	}
	eng := engine.New(s.cfg.Model, registry, opts...)
	session := engine.NewSession()

	log.Printf("[SERVER] session %s connected", session.ID)
	defer log.Printf("[SERVER] session %s closed", session.ID)

	for {
		var in frame
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[SERVER] read failed: %v", err)
			}
			return
		}
		if in.Type != "user" || in.Text == "" {
			continue
		}

		result, err := eng.RunTurn(r.Context(), session, in.Text)
		if err != nil {
			// External service failures abort the turn, not the
			// connection; report and let the client retry.
			var svcErr *core.ExternalServiceError
			if !errors.As(err, &svcErr) {
				log.Printf("[SERVER] session %s: %v", session.ID, err)
			}
			if werr := conn.WriteJSON(frame{Type: "error", Text: err.Error()}); werr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(frame{Type: "assistant", Text: result.Text}); err != nil {
			return
		}
	}
}
