package core

import "context"

// Context keys for analysis options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	analysisIDKey     contextKey = "analysisID"
)

// WithSuppressHeader marks the context so no headers are printed.
// The MCP server uses it to keep stdio clean for the protocol.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withAnalysisID stores the ID of the tracked run in the context
func withAnalysisID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, analysisIDKey, id)
}

// getAnalysisID returns the tracked run ID from context, if any
func getAnalysisID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(analysisIDKey).(int64)
	return id, ok && id > 0
}
