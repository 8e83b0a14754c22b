package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/internal/logging"
	propmcp "github.com/aretw0/propnet/pkg/adapters/mcp"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/mcptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *mcptest.Server {
	t.Helper()
	s := propmcp.NewServer(cli.NewSolver(config.Default(), logging.NewNop()))
	srv, err := mcptest.NewServer(t, s.Tools()...)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *mcptest.Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := srv.Client().CallTool(context.Background(), req)
	require.NoError(t, err)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content %T", result.Content[0])
	return tc.Text
}

func TestSolveTool(t *testing.T) {
	srv := startServer(t)

	result := call(t, srv, "solve", map[string]any{
		"constraints": []any{"difference f k32 t", "product c k9 c9", "product t k5 c9"},
		"constants":   []any{"k32=32", "k9=9", "k5=5"},
		"values":      []any{"c=100"},
	})
	require.False(t, result.IsError, text(t, result))

	var sol cli.Solution
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &sol))
	assert.Equal(t, domain.StatusQuiescent, sol.Status)
	assert.Contains(t, sol.Cells, cli.CellValue{Name: "f", Value: "212", Domain: "numeric"})
}

func TestSolveTool_Contradiction(t *testing.T) {
	srv := startServer(t)

	result := call(t, srv, "solve", map[string]any{
		"constraints": []any{"sum a b c"},
		"values":      []any{"a=1", "b=2", "c=4"},
	})
	require.False(t, result.IsError, "contradictions are results, not tool errors")

	var sol cli.Solution
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &sol))
	assert.Equal(t, domain.StatusHaltedContradiction, sol.Status)
	assert.NotEmpty(t, sol.Contradictions)
}

func TestSolveTool_Errors(t *testing.T) {
	srv := startServer(t)

	result := call(t, srv, "solve", map[string]any{"constraints": []any{}})
	assert.True(t, result.IsError)

	result = call(t, srv, "solve", map[string]any{"constraints": []any{"cube a b"}})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "unknown constraint")
}

func TestListConstraintsTool(t *testing.T) {
	srv := startServer(t)

	result := call(t, srv, "list_constraints", nil)
	require.False(t, result.IsError)

	var list propmcp.ConstraintList
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &list))
	assert.Contains(t, list.Constraints, cli.Constraint{Name: "equal", Arity: 2, Description: "x = y"})
}

func TestSolveTool_OversizedInput(t *testing.T) {
	srv := startServer(t)
	t.Setenv(cli.EnvMaxInputSize, "8")

	result := call(t, srv, "solve", map[string]any{
		"constraints": []any{"product celsius nine c9"},
	})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "maximum allowed size")
}
