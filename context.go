package goAuthState

import "context"

type engineContextKey struct{}
type clientIPContextKey struct{}

// WithEngine attaches e to ctx.
func WithEngine(ctx context.Context, e *Engine) context.Context {
	return context.WithValue(ctx, engineContextKey{}, e)
}

// EngineFromContext returns the engine attached by [WithEngine].
func EngineFromContext(ctx context.Context) (*Engine, bool) {
	if ctx == nil {
		return nil, false
	}
	e, ok := ctx.Value(engineContextKey{}).(*Engine)
	return e, ok && e != nil
}

// WithClientIP attaches the caller's IP address to ctx. Audit events
// record it as metadata.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
