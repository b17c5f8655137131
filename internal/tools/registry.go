// Package tools defines the MCP tool surface: the tool schemas, the handlers
// behind them, and the registry that connects both to the MCP server.
package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hesiyuetian/mm-mcp/internal/common"
)

type entry struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// Registry holds the tool definitions in registration order. Listing the
// registry any number of times yields the same tools in the same order.
type Registry struct {
	names   []string
	entries map[string]entry
	logger  *common.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *common.Logger) *Registry {
	return &Registry{
		entries: make(map[string]entry),
		logger:  logger,
	}
}

// Register adds a tool and its handler. Re-registering a name replaces the
// handler without changing the listing order.
func (r *Registry) Register(tool mcp.Tool, handler server.ToolHandlerFunc) {
	name := tool.Name
	if _, exists := r.entries[name]; !exists {
		r.names = append(r.names, name)
	}
	r.entries[name] = entry{tool: tool, handler: handler}
}

// List returns all registered tools in registration order.
func (r *Registry) List() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.entries[name].tool)
	}
	return out
}

// Get returns the tool definition for a name.
func (r *Registry) Get(name string) (mcp.Tool, bool) {
	e, ok := r.entries[name]
	return e.tool, ok
}

// Dispatch routes a call to the named tool's handler. An unknown name is a
// hard error, distinct from the in-band tool errors handlers produce.
func (r *Registry) Dispatch(ctx context.Context, name string, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return r.guard(name, e.handler)(ctx, request)
}

// AttachTo registers every tool on an MCP server, in order, each wrapped
// with the logging and recovery guard.
func (r *Registry) AttachTo(s *server.MCPServer) {
	for _, name := range r.names {
		e := r.entries[name]
		s.AddTool(e.tool, r.guard(name, e.handler))
	}
}

// guard wraps a handler with a per-call correlation id and panic recovery.
// A panicking handler produces an in-band tool error instead of killing the
// serving loop.
func (r *Registry) guard(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		log := r.logger.WithCorrelationId(uuid.NewString())
		log.Debug().Str("tool", name).Msg("Tool Call")

		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Str("tool", name).Str("panic", fmt.Sprint(rec)).Msg("Tool Handler Panic")
				result = errorResult(fmt.Sprintf("Error: internal failure in %s", name))
				err = nil
			}
		}()

		return h(ctx, request)
	}
}
