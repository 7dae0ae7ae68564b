package tools

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/corbat-tech/corbat-mcp/internal/logging"
)

// withLogging wraps a tool handler so every call is logged with a
// request id and its duration.
func withLogging(logger *logging.AppLogger, name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		l := logger.With("tool", name, "request_id", uuid.NewString())
		l.Debug("Tool call started")

		result, err := next(ctx, req)

		duration := time.Since(start)
		switch {
		case err != nil:
			l.Error("Tool call failed", "duration", duration, "err", err)
		case result != nil && result.IsError:
			l.Warn("Tool call returned an error result", "duration", duration)
		default:
			l.Info("Tool call completed", "duration", duration)
		}
		return result, err
	}
}
