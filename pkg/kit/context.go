// CLAUDE:SUMMARY Context keys for transport tag and request id, plus ULID request id generation.
package kit

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const (
	TransportKey contextKey = "kit_transport" // "http", "mcp", "mcp_quic", "cli"
	RequestIDKey contextKey = "kit_request_id"
)

// Transport names.
const (
	TransportHTTP = "http"
	TransportMCP  = "mcp"
	TransportQUIC = "mcp_quic"
	TransportCLI  = "cli"
)

// HasTransport reports whether a transport was recorded on ctx.
func HasTransport(ctx context.Context) bool {
	_, ok := ctx.Value(TransportKey).(string)
	return ok
}

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return TransportHTTP
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

// NewRequestID returns a new lexically sortable request id.
func NewRequestID() string {
	return ulid.Make().String()
}
