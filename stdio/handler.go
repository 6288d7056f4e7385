package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/ggoodman/pms-mcp/internal/jsonrpc"
	"github.com/ggoodman/pms-mcp/internal/logctx"
	"github.com/ggoodman/pms-mcp/mcp"
	"github.com/ggoodman/pms-mcp/mcpservice"
	"github.com/google/uuid"
)

const defaultMaxLineSize = 4 << 20

// Handler is a single-connection stdio transport that reads newline-delimited
// JSON-RPC messages from an io.Reader and writes responses to an io.Writer.
// By default, it uses os.Stdin and os.Stdout.
//
// The handler is transport-only; it delegates all MCP semantics to the provided
// mcpservice.ServerCapabilities.
type Handler struct {
	srv         mcpservice.ServerCapabilities
	r           io.Reader
	w           io.Writer
	l           *slog.Logger
	maxLineSize int
	sessionID   string

	writeMu sync.Mutex

	mu              sync.Mutex
	initialized     bool
	protocolVersion string
	clientInfo      mcp.ImplementationInfo
	inflight        map[string]context.CancelCauseFunc

	wg sync.WaitGroup
}

// errCancelledByClient is the cancellation cause for notifications/cancelled.
var errCancelledByClient = errors.New("cancelled by client")

// NewHandler constructs a stdio Handler with defaults and applies options.
func NewHandler(srv mcpservice.ServerCapabilities, opts ...Option) *Handler {
	h := &Handler{
		srv:         srv,
		r:           os.Stdin,
		w:           os.Stdout,
		l:           slog.Default(),
		maxLineSize: defaultMaxLineSize,
		sessionID:   uuid.NewString(),
		inflight:    make(map[string]context.CancelCauseFunc),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.l = logctx.Decorate(h.l)
	return h
}

// SessionID returns the identifier attached to this connection's log records.
func (h *Handler) SessionID() string {
	return h.sessionID
}

// Serve runs the stdio event loop until EOF on the reader or the context is
// canceled. It is safe to call at most once per Handler. On EOF it waits for
// in-flight tool calls to finish and returns nil; on cancellation it returns
// the context error.
func (h *Handler) Serve(ctx context.Context) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		sc := bufio.NewScanner(h.r)
		sc.Buffer(make([]byte, 0, min(64*1024, h.maxLineSize)), h.maxLineSize)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	h.l.InfoContext(ctx, "stdio.serve.start", slog.String("session_id", h.sessionID))

	for {
		select {
		case <-ctx.Done():
			h.cancelAll(ctx.Err())
			h.wg.Wait()
			return ctx.Err()
		case err := <-readErr:
			h.wg.Wait()
			if err != nil {
				h.l.ErrorContext(ctx, "stdio.serve.read_err", slog.String("err", err.Error()))
				return fmt.Errorf("stdio: read: %w", err)
			}
			h.l.InfoContext(ctx, "stdio.serve.eof")
			return nil
		case line := <-lines:
			h.handleLine(ctx, line)
		}
	}
}

func (h *Handler) handleLine(ctx context.Context, line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}
	if !json.Valid(line) {
		h.l.InfoContext(ctx, "stdio.handle.parse_err")
		h.write(ctx, jsonrpc.NewErrorResponse(jsonrpc.NewRequestID(nil), jsonrpc.ErrorCodeParseError, "parse error", nil))
		return
	}

	var msg jsonrpc.AnyMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		h.l.InfoContext(ctx, "stdio.handle.malformed", slog.String("err", err.Error()))
		h.write(ctx, jsonrpc.NewErrorResponse(jsonrpc.NewRequestID(nil), jsonrpc.ErrorCodeInvalidRequest, "invalid request", err.Error()))
		return
	}

	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{
		Method: msg.Method,
		ID:     msg.ID.String(),
		Type:   string(msg.Kind()),
	})
	ctx = h.withSession(ctx)

	switch msg.Kind() {
	case jsonrpc.KindResponse:
		// This server never issues requests to the client.
		h.l.DebugContext(ctx, "stdio.handle.unexpected_response")
	case jsonrpc.KindNotification:
		h.handleNotification(ctx, msg.AsRequest())
	default:
		h.handleRequest(ctx, msg.AsRequest())
	}
}

func (h *Handler) handleNotification(ctx context.Context, req *jsonrpc.Request) {
	switch mcp.Method(req.Method) {
	case mcp.InitializedNotificationMethod:
		h.l.InfoContext(ctx, "stdio.session.initialized")
	case mcp.CancelledNotificationMethod:
		var params mcp.CancelledNotification
		if err := json.Unmarshal(req.Params, &params); err != nil {
			h.l.InfoContext(ctx, "stdio.cancel.invalid", slog.String("err", err.Error()))
			return
		}
		if params.RequestID.IsNil() {
			return
		}
		h.mu.Lock()
		cancel, ok := h.inflight[params.RequestID.String()]
		h.mu.Unlock()
		if ok {
			cancel(errCancelledByClient)
		}
		h.l.InfoContext(ctx, "stdio.cancel", slog.String("request_id", params.RequestID.String()), slog.Bool("had_cancel", ok), slog.String("reason", params.Reason))
	default:
		h.l.DebugContext(ctx, "stdio.notification.ignored")
	}
}

func (h *Handler) handleRequest(ctx context.Context, req *jsonrpc.Request) {
	method := mcp.Method(req.Method)

	if method == mcp.InitializeMethod {
		h.write(ctx, h.handleInitialize(ctx, req))
		return
	}
	if method == mcp.PingMethod {
		h.writeResult(ctx, req.ID, struct{}{})
		return
	}

	h.mu.Lock()
	initialized := h.initialized
	h.mu.Unlock()
	if !initialized {
		h.write(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidRequest, "session not initialized", nil))
		return
	}

	switch method {
	case mcp.ToolsListMethod:
		h.write(ctx, h.handleToolsList(ctx, req))
	case mcp.ToolsCallMethod:
		h.startToolCall(ctx, req)
	default:
		h.l.InfoContext(ctx, "stdio.handle.method_not_found")
		h.write(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeMethodNotFound, "method not found", req.Method))
	}
}

func (h *Handler) handleInitialize(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params mcp.InitializeRequest
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, "invalid params", err.Error())
	}

	version, err := h.negotiateVersion(ctx, params.ProtocolVersion)
	if err != nil {
		h.l.ErrorContext(ctx, "stdio.initialize.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	info, err := h.srv.GetServerInfo(ctx)
	if err != nil {
		h.l.ErrorContext(ctx, "stdio.initialize.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	result := &mcp.InitializeResult{ProtocolVersion: version, ServerInfo: info}

	if instr, ok, err := h.srv.GetInstructions(ctx); err != nil {
		h.l.ErrorContext(ctx, "stdio.initialize.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	} else if ok {
		result.Instructions = instr
	}

	if _, ok, err := h.srv.GetToolsCapability(ctx); err != nil {
		h.l.ErrorContext(ctx, "stdio.initialize.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	} else if ok {
		result.Capabilities.Tools = &struct {
			ListChanged bool `json:"listChanged"`
		}{}
	}

	h.mu.Lock()
	h.initialized = true
	h.protocolVersion = version
	h.clientInfo = params.ClientInfo
	h.mu.Unlock()

	h.l.InfoContext(ctx, "stdio.initialize.ok",
		slog.String("client", params.ClientInfo.Name),
		slog.String("client_version", params.ClientInfo.Version),
		slog.String("requested_version", params.ProtocolVersion),
		slog.String("protocol_version", version),
	)

	res, err := jsonrpc.NewResultResponse(req.ID, result)
	if err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	return res
}

// negotiateVersion echoes the client's version when supported, otherwise
// offers the server's preferred version (or the latest known one).
func (h *Handler) negotiateVersion(ctx context.Context, requested string) (string, error) {
	if slices.Contains(mcp.SupportedProtocolVersions, requested) {
		return requested, nil
	}
	preferred, ok, err := h.srv.GetPreferredProtocolVersion(ctx)
	if err != nil {
		return "", err
	}
	if ok {
		return preferred, nil
	}
	return mcp.LatestProtocolVersion, nil
}

func (h *Handler) handleToolsList(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	start := time.Now()

	var params mcp.ListToolsRequest
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, "invalid params", err.Error())
		}
	}

	cap, ok, err := h.srv.GetToolsCapability(ctx)
	if err != nil {
		h.l.ErrorContext(ctx, "stdio.tools_list.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	if !ok || cap == nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeMethodNotFound, "tools not supported", nil)
	}

	var cursor *string
	if params.Cursor != "" {
		cursor = &params.Cursor
	}
	page, err := cap.ListTools(ctx, cursor)
	if err != nil {
		h.l.ErrorContext(ctx, "stdio.tools_list.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}

	result := &mcp.ListToolsResult{Tools: page.Items}
	if page.NextCursor != nil {
		result.NextCursor = *page.NextCursor
	}
	h.l.InfoContext(ctx, "stdio.tools_list.ok", slog.Int64("dur_ms", time.Since(start).Milliseconds()), slog.Int("tool_count", len(page.Items)))

	res, err := jsonrpc.NewResultResponse(req.ID, result)
	if err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	return res
}

// startToolCall runs the call on its own goroutine so that a later
// notifications/cancelled on the same stream can reach it.
func (h *Handler) startToolCall(ctx context.Context, req *jsonrpc.Request) {
	var params mcp.CallToolRequestReceived
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		h.write(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, "invalid params", nil))
		return
	}

	reqID := req.ID.String()
	toolCtx, cancel := context.WithCancelCause(logctx.WithToolCallData(ctx, &logctx.ToolCallData{ToolName: params.Name}))

	h.mu.Lock()
	if _, exists := h.inflight[reqID]; exists {
		h.mu.Unlock()
		cancel(nil)
		h.write(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidRequest, "duplicate request id", reqID))
		return
	}
	h.inflight[reqID] = cancel
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			h.mu.Lock()
			delete(h.inflight, reqID)
			h.mu.Unlock()
			cancel(nil)
		}()

		res := h.callTool(toolCtx, req, &params)
		if errors.Is(context.Cause(toolCtx), errCancelledByClient) {
			// A cancelled request gets no response.
			return
		}
		h.write(toolCtx, res)
	}()
}

func (h *Handler) callTool(ctx context.Context, req *jsonrpc.Request, params *mcp.CallToolRequestReceived) *jsonrpc.Response {
	start := time.Now()

	cap, ok, err := h.srv.GetToolsCapability(ctx)
	if err != nil {
		h.l.ErrorContext(ctx, "stdio.tool_call.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	if !ok || cap == nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeMethodNotFound, "tools not supported", nil)
	}

	result, err := cap.CallTool(ctx, params)
	if err != nil {
		if errors.Is(err, mcpservice.ErrToolNotFound) {
			h.l.InfoContext(ctx, "stdio.tool_call.unknown")
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, "unknown tool: "+params.Name, nil)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.l.InfoContext(ctx, "stdio.tool_call.cancelled", slog.Int64("dur_ms", time.Since(start).Milliseconds()))
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "cancelled", nil)
		}
		h.l.ErrorContext(ctx, "stdio.tool_call.fail", slog.String("err", err.Error()), slog.Int64("dur_ms", time.Since(start).Milliseconds()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}

	h.l.InfoContext(ctx, "stdio.tool_call.ok", slog.Bool("is_error", result.IsError), slog.Int64("dur_ms", time.Since(start).Milliseconds()))

	res, err := jsonrpc.NewResultResponse(req.ID, result)
	if err != nil {
		h.l.ErrorContext(ctx, "stdio.tool_call.fail", slog.String("err", err.Error()))
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	return res
}

func (h *Handler) writeResult(ctx context.Context, id *jsonrpc.RequestID, result any) {
	res, err := jsonrpc.NewResultResponse(id, result)
	if err != nil {
		res = jsonrpc.NewErrorResponse(id, jsonrpc.ErrorCodeInternalError, "internal error", nil)
	}
	h.write(ctx, res)
}

// write serializes one message per line. Writes from concurrent tool calls
// are serialized so lines never interleave.
func (h *Handler) write(ctx context.Context, res *jsonrpc.Response) {
	b, err := json.Marshal(res)
	if err != nil {
		h.l.ErrorContext(ctx, "stdio.write.marshal_err", slog.String("err", err.Error()))
		return
	}
	b = append(b, '\n')

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if _, err := h.w.Write(b); err != nil {
		h.l.ErrorContext(ctx, "stdio.write.err", slog.String("err", err.Error()))
	}
}

func (h *Handler) withSession(ctx context.Context) context.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	return logctx.WithSessionData(ctx, &logctx.SessionData{
		SessionID:       h.sessionID,
		ClientName:      h.clientInfo.Name,
		ProtocolVersion: h.protocolVersion,
	})
}

func (h *Handler) cancelAll(cause error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cancel := range h.inflight {
		cancel(cause)
	}
}
