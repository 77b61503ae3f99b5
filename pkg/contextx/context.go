// Package contextx carries request-scoped values across the RPC facade
// without growing every function signature: the DI container, the request
// logger, and identifiers used for log correlation.
package contextx

import (
	"context"

	"github.com/nmxmxh/rosmaster/pkg/di"
	"go.uber.org/zap"
)

// Key types (unexported).
type (
	diKeyType        struct{}
	loggerKeyType    struct{}
	requestIDKeyType struct{}
	traceIDKeyType   struct{}
)

var (
	diKey        = diKeyType{}
	loggerKey    = loggerKeyType{}
	requestIDKey = requestIDKeyType{}
	traceIDKey   = traceIDKeyType{}
)

// DI helpers.
func WithDI(ctx context.Context, c *di.Container) context.Context {
	return context.WithValue(ctx, diKey, c)
}

func DI(ctx context.Context) *di.Container {
	val := ctx.Value(diKey)
	if c, ok := val.(*di.Container); ok {
		return c
	}
	return nil
}

// Logger helpers.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func Logger(ctx context.Context) *zap.Logger {
	val := ctx.Value(loggerKey)
	if l, ok := val.(*zap.Logger); ok {
		return l
	}
	return zap.L()
}

// Request ID helpers.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Trace ID helpers.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}
