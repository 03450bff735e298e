// Package mcp provides an MCP (Model Context Protocol) server for engram.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/engramdb/engram/internal/graph"
	"github.com/engramdb/engram/internal/session"
)

// Server wraps the MCP SDK server around a single engram session.
type Server struct {
	server  *sdk.Server
	session *session.Session
	cfg     *Config
}

// Config holds server configuration.
type Config struct {
	Name      string // Server name (e.g., "engram")
	Version   string // Server version
	GraphPath string // Optional YAML graph file to load on startup
	Steps     int    // Default propagation step count
	MaxDepth  int    // Default path search depth
	TopK      int    // Default path result cap
	Session   session.Config
}

// NewServer creates a new MCP server exposing engram tools over one session.
func NewServer(cfg *Config) (*Server, error) {
	store := graph.NewMemoryStore()
	if cfg.GraphPath != "" {
		loaded, err := graph.LoadFile(cfg.GraphPath)
		if err != nil {
			return nil, fmt.Errorf("loading graph file: %w", err)
		}
		store = loaded
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server:  mcpServer,
		session: session.New(store, cfg.Session),
		cfg:     cfg,
	}
	s.registerTools()

	return s, nil
}

// Session returns the server's underlying session.
func (s *Server) Session() *session.Session { return s.session }

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return s.server.Run(ctx, &sdk.StdioTransport{})
}
