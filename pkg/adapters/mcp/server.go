package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/propnet"
	"github.com/aretw0/propnet/internal/cli"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ConstraintList is the structured result of list_constraints.
type ConstraintList struct {
	Constraints []cli.Constraint `json:"constraints" jsonschema_description:"Registered constraint kinds"`
}

// SolveArgs are the arguments of the solve tool.
type SolveArgs struct {
	Constraints []string `json:"constraints"`
	Values      []string `json:"values"`
	Constants   []string `json:"constants"`
}

// Server wraps a Solver and exposes it as an MCP Server.
type Server struct {
	solver    *cli.Solver
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(solver *cli.Solver) *Server {
	logger := solver.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		solver:    solver,
		logger:    logger,
		mcpServer: server.NewMCPServer("propnet-mcp", strings.TrimSpace(propnet.Version)),
	}
	s.mcpServer.AddTools(s.Tools()...)
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Tools returns the tools served by s.
func (s *Server) Tools() []server.ServerTool {
	solveTool := mcp.NewTool("solve",
		mcp.WithDescription("Build a propagation network from constraints, inject values and run it to a fixpoint. "+
			"Constraints are \"kind cell...\" strings such as \"sum a b c\"; values and constants are \"name=value\" "+
			"where value is a number, an interval [lo, hi], a set {a, b}, a boolean or a string."),
		mcp.WithArray("constraints", mcp.Required(), mcp.WithStringItems(), mcp.Description("Constraints to wire, e.g. \"product c k9 c9\"")),
		mcp.WithArray("values", mcp.WithStringItems(), mcp.Description("Values to inject, e.g. \"f=212\"")),
		mcp.WithArray("constants", mcp.WithStringItems(), mcp.Description("Immutable cells, e.g. \"k9=9\"")),
		mcp.WithOutputSchema[cli.Solution](),
	)

	listTool := mcp.NewTool("list_constraints",
		mcp.WithDescription("List the constraint kinds the solve tool understands."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[ConstraintList](),
	)

	return []server.ServerTool{
		{Tool: solveTool, Handler: mcp.NewStructuredToolHandler(s.handleSolve)},
		{Tool: listTool, Handler: mcp.NewStructuredToolHandler(s.handleListConstraints)},
	}
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args SolveArgs) (*cli.Solution, error) {
	if len(args.Constraints) == 0 {
		return nil, errors.New("at least one constraint is required")
	}
	problem, err := cli.Problem{
		Constraints: args.Constraints,
		Values:      args.Values,
		Constants:   args.Constants,
	}.Sanitize()
	if err != nil {
		return nil, err
	}
	sol, err := s.solver.Solve(ctx, problem)
	if err != nil {
		s.logger.Warn("MCP solve failed", "error", err)
		return nil, fmt.Errorf("solve failed: %w", err)
	}
	return sol, nil
}

func (s *Server) handleListConstraints(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ConstraintList, error) {
	return ConstraintList{Constraints: s.solver.Constraints()}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: propnet://constraints
	s.mcpServer.AddResource(mcp.NewResource("propnet://constraints", "Registered Constraint Kinds",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.solver.Constraints())
		if err != nil {
			return nil, fmt.Errorf("failed to encode constraints: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "propnet://constraints",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
