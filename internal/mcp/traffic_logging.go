package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
)

// uploadTool is tagged with an upload id shared by the traffic log and the
// dashboard upload log.
const uploadTool = "upload_file"

func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var tagged []any
			if tool := toolName(method, req); tool != "" {
				tagged = append(tagged, "tool", tool)
				if tool == uploadTool && direction == "inbound" {
					id := dashboard.UploadIDFrom(ctx)
					if id == "" {
						id = uuid.NewString()
						ctx = dashboard.WithUploadID(ctx, id)
					}
					tagged = append(tagged, "upload_id", id)
				}
			}

			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			sessionID := safeSessionID(req)
			attrs := []any{"direction", direction, "stage", "request", "method", method, "session_id", sessionID}
			attrs = append(attrs, tagged...)
			logger.Debug("mcp traffic", append(attrs, "params", formatPayload(safeParams(req)))...)

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			attrs = []any{"direction", direction, "stage", "response", "method", method, "session_id", sessionID}
			attrs = append(attrs, tagged...)
			attrs = append(attrs, "result", formatPayload(result))
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			logger.Debug("mcp traffic", attrs...)
			return result, err
		}
	}
}

// toolName is the tool a tools/call request targets, or "".
func toolName(method string, req sdkmcp.Request) (name string) {
	if method != "tools/call" || req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()
	call, ok := req.(*sdkmcp.CallToolRequest)
	if !ok || call.Params == nil {
		return ""
	}
	return call.Params.Name
}

func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	const limit = 2048
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
