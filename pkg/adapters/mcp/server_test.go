package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/circuitlab/pkg/adapters/memory"
	"github.com/aretw0/circuitlab/pkg/challenge"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loopLayout = `{"elements": [
	{"id": "bat", "kind": "source", "a": {"x": 0, "y": 0}, "b": {"x": 100, "y": 0}},
	{"id": "bulb", "kind": "lamp", "a": {"x": 100, "y": 0}, "b": {"x": 100, "y": 100}},
	{"id": "w", "kind": "wire", "a": {"x": 100, "y": 100}, "b": {"x": 0, "y": 0}}
]}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	catalog, err := memory.NewCatalog(challenge.Builtin()...)
	require.NoError(t, err)
	return NewServer(catalog)
}

func TestHandleSimulate(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, simulateArgs{Layout: loopLayout})
	require.NoError(t, err)

	assert.Equal(t, "complete", resp.Status)
	assert.Equal(t, 1, resp.StatusCode)
	assert.Equal(t, [][]string{{"w", "bulb"}}, resp.Paths)
	assert.True(t, resp.Result.Readings["bulb"].On)
}

func TestHandleSimulate_InvalidLayout(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, simulateArgs{Layout: "elements: ["})
	assert.ErrorIs(t, err, domain.ErrInvalidLayout)
}

func TestHandleCheck(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	verdict, err := s.handleCheck(ctx, mcp.CallToolRequest{}, checkArgs{ChallengeID: "01-first-light", Layout: loopLayout})
	require.NoError(t, err)
	assert.True(t, verdict.Passed, verdict.Failures)

	verdict, err = s.handleCheck(ctx, mcp.CallToolRequest{}, checkArgs{ChallengeID: "03-parallel", Layout: loopLayout})
	require.NoError(t, err)
	assert.False(t, verdict.Passed)
	assert.Contains(t, verdict.Failures, "expected at least 2 closed paths, found 1")

	_, err = s.handleCheck(ctx, mcp.CallToolRequest{}, checkArgs{ChallengeID: "nope", Layout: loopLayout})
	assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
}

func TestHandleGraph(t *testing.T) {
	s := newTestServer(t)

	req := mcp.CallToolRequest{}
	req.Params.Name = "graph"
	req.Params.Arguments = map[string]any{"layout": loopLayout}

	res, err := s.handleGraph(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "graph LR")
	assert.Contains(t, text.Text, `"bulb (lamp)"`)

	req.Params.Arguments = map[string]any{"layout": map[string]any{
		"elements": []any{
			map[string]any{"id": "bat", "kind": "source", "a": map[string]any{"x": 0, "y": 0}, "b": map[string]any{"x": 1, "y": 0}},
			map[string]any{"id": "bulb", "kind": "lamp", "a": map[string]any{"x": 1, "y": 0}, "b": map[string]any{"x": 0, "y": 0}},
		},
	}}
	res, err = s.handleGraph(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	text, ok = res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"bat (source)"`)
	assert.Contains(t, text.Text, "class ")

	res, err = s.handleGraph(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestReadChallenges(t *testing.T) {
	s := newTestServer(t)

	contents, err := s.readChallenges(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, ChallengesURI, text.URI)

	var list []domain.Challenge
	require.NoError(t, json.Unmarshal([]byte(text.Text), &list))
	assert.Len(t, list, len(challenge.Builtin()))
}
