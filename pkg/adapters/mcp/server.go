// Package mcp exposes circuit simulation and challenge grading to agents over the Model
// Context Protocol.
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

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/presentation/graph"
	"github.com/aretw0/circuitlab/pkg/challenge"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/layout"
	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ChallengesURI is the resource listing every challenge as JSON.
const ChallengesURI = "circuitlab://challenges"

// SimulateResponse is the structured output of the simulate tool.
type SimulateResponse struct {
	Status     string         `json:"status" jsonschema_description:"complete, open, no_source or switch_open"`
	StatusCode int            `json:"status_code" jsonschema_description:"1 complete, 0 open, -1 no source, -2 switch open"`
	Paths      [][]string     `json:"paths" jsonschema_description:"Element ids of every closed path"`
	Result     *domain.Result `json:"result" jsonschema_description:"Full simulation result with per-element readings"`
}

type simulateArgs struct {
	Layout string `json:"layout"`
}

type checkArgs struct {
	ChallengeID string `json:"challenge_id"`
	Layout      string `json:"layout"`
}

// Server wraps the engine and the challenge catalog as an MCP server.
type Server struct {
	catalog   ports.ChallengeCatalog
	graphOpts []circuitlab.Option
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(catalog ports.ChallengeCatalog, opts ...circuitlab.Option) *Server {
	s := &Server{
		catalog:   catalog,
		graphOpts: opts,
		mcpServer: server.NewMCPServer("circuitlab-mcp", strings.TrimSpace(circuitlab.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
	})
	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: simulate
	simulateTool := mcp.NewTool("simulate",
		mcp.WithDescription("Simulate a circuit layout and report whether it forms a closed loop, the closed paths and per-element readings."),
		mcp.WithString("layout", mcp.Required(), mcp.Description(`Layout as JSON or YAML, e.g. {"elements":[{"id":"bat","kind":"source","a":{"x":0,"y":0},"b":{"x":100,"y":0}}]}`)),
		mcp.WithOutputSchema[SimulateResponse](),
	)
	s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))

	// TOOL: graph
	s.mcpServer.AddTool(mcp.NewTool("graph",
		mcp.WithDescription("Render a circuit layout as a Mermaid flowchart with the live path highlighted."),
		mcp.WithString("layout", mcp.Required(), mcp.Description("Layout as JSON or YAML text; a layout object is accepted as well")),
	), s.handleGraph)

	// TOOL: list_challenges
	s.mcpServer.AddTool(mcp.NewTool("list_challenges",
		mcp.WithDescription("List the available circuit challenges with their goals."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.catalog.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(list)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: check_challenge
	checkTool := mcp.NewTool("check_challenge",
		mcp.WithDescription("Grade a circuit layout against a challenge goal. Every failed constraint is reported."),
		mcp.WithString("challenge_id", mcp.Required(), mcp.Description("Challenge ID, see list_challenges")),
		mcp.WithString("layout", mcp.Required(), mcp.Description("Layout as JSON or YAML")),
		mcp.WithOutputSchema[challenge.Verdict](),
	)
	s.mcpServer.AddTool(checkTool, mcp.NewStructuredToolHandler(s.handleCheck))
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args simulateArgs) (SimulateResponse, error) {
	l, err := layout.Decode([]byte(args.Layout))
	if err != nil {
		return SimulateResponse{}, err
	}
	res, err := circuitlab.Run(ctx, l, s.graphOpts...)
	if err != nil {
		return SimulateResponse{}, fmt.Errorf("simulate failed: %w", err)
	}
	return SimulateResponse{
		Status:     res.Status.String(),
		StatusCode: int(res.Status),
		Paths:      res.PathIDs(),
		Result:     res,
	}, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	l, err := layoutArgument(request.GetArguments()["layout"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	g := circuitlab.New(s.graphOpts...)
	g.Load(ctx, l)
	res := g.Simulate(ctx)
	return mcp.NewToolResultText(graph.GenerateMermaid(g.Junctions(), g.Elements(), graph.OverlayFromResult(res))), nil
}

// layoutArgument accepts the layout either as JSON/YAML text or as an already decoded object.
func layoutArgument(v any) (*domain.Layout, error) {
	switch raw := v.(type) {
	case string:
		return layout.Decode([]byte(raw))
	case map[string]any:
		return layout.FromMap(raw)
	default:
		return nil, errors.New("required argument \"layout\" not found")
	}
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest, args checkArgs) (challenge.Verdict, error) {
	ch, err := s.catalog.Get(ctx, args.ChallengeID)
	if err != nil {
		return challenge.Verdict{}, err
	}
	l, err := layout.Decode([]byte(args.Layout))
	if err != nil {
		return challenge.Verdict{}, err
	}
	verdict, err := challenge.Check(ctx, ch, l, s.graphOpts...)
	if err != nil {
		slog.Error("MCP check_challenge failed", "challenge_id", args.ChallengeID, "error", err)
		return challenge.Verdict{}, fmt.Errorf("check failed: %w", err)
	}
	return *verdict, nil
}

func (s *Server) registerResources() {
	// EXPOSE: circuitlab://challenges
	s.mcpServer.AddResource(mcp.NewResource(ChallengesURI, "Circuit Challenges",
		mcp.WithMIMEType("application/json"),
	), s.readChallenges)
}

func (s *Server) readChallenges(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	jsonBytes, _ := json.Marshal(list)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ChallengesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
