package logctx

import (
	"context"
	"log/slog"
)

// Handler decorates records with the request-scoped groups found in the
// context: the JSON-RPC message being served, the stdio session, the tool
// being called and the upstream request made on its behalf.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if sd, ok := ctx.Value(sessionDataKey{}).(*SessionData); ok {
		r.AddAttrs(slog.Group("sess",
			slog.String("id", sd.SessionID),
			slog.String("client", sd.ClientName),
			slog.String("protocol_version", sd.ProtocolVersion),
		))
	}

	if msg, ok := ctx.Value(rpcMsg{}).(*RPCMessage); ok {
		r.AddAttrs(slog.Group("rpc",
			slog.String("method", msg.Method),
			slog.String("id", msg.ID),
			slog.String("type", msg.Type),
		))
	}

	if td, ok := ctx.Value(toolCallDataKey{}).(*ToolCallData); ok {
		r.AddAttrs(slog.Group("tool",
			slog.String("name", td.ToolName),
		))
	}

	if ud, ok := ctx.Value(upstreamDataKey{}).(*UpstreamData); ok {
		r.AddAttrs(slog.Group("upstream",
			slog.String("request_id", ud.RequestID),
			slog.String("path", ud.Path),
		))
	}

	return h.Handler.Handle(ctx, r)
}

// Decorate wraps l's handler in Handler unless it is already wrapped, so
// loggers shared between packages carry the context groups exactly once.
func Decorate(l *slog.Logger) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	if _, ok := l.Handler().(Handler); ok {
		return l
	}
	return slog.New(Handler{Handler: l.Handler()})
}

// WithAttrs and WithGroup keep the decorator in place on derived loggers.
func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}

type rpcMsg struct{}

type RPCMessage struct {
	Method string
	ID     string
	Type   string
}

func WithRPCMessage(ctx context.Context, msg *RPCMessage) context.Context {
	return context.WithValue(ctx, rpcMsg{}, msg)
}

type sessionDataKey struct{}

type SessionData struct {
	SessionID       string
	ClientName      string
	ProtocolVersion string
}

func WithSessionData(ctx context.Context, data *SessionData) context.Context {
	return context.WithValue(ctx, sessionDataKey{}, data)
}

type toolCallDataKey struct{}

type ToolCallData struct {
	ToolName string
}

func WithToolCallData(ctx context.Context, data *ToolCallData) context.Context {
	return context.WithValue(ctx, toolCallDataKey{}, data)
}

type upstreamDataKey struct{}

type UpstreamData struct {
	RequestID string
	Path      string
}

func WithUpstreamData(ctx context.Context, data *UpstreamData) context.Context {
	return context.WithValue(ctx, upstreamDataKey{}, data)
}
