package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ProtocolVersion is the only "jsonrpc" member value accepted or emitted.
const ProtocolVersion = "2.0"

var (
	// ErrInvalidJSON wraps decode failures of bytes that are not JSON.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrInvalidMessage wraps JSON that does not form a JSON-RPC 2.0 message.
	ErrInvalidMessage = errors.New("invalid JSON-RPC message")
)

// Kind says which of the three message shapes a line carried.
type Kind string

const (
	KindRequest      Kind = "request"
	KindNotification Kind = "notification"
	KindResponse     Kind = "response"
)

// AnyMessage holds one decoded line before it is known to be a request,
// notification or response. Decoding checks the framing rules; Kind tells
// the shapes apart.
type AnyMessage struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Method         string          `json:"method,omitempty"`
	Params         json.RawMessage `json:"params,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
	ID             *RequestID      `json:"id,omitempty"`
}

// Request is a call (ID set) or a notification (ID nil).
type Request struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Method         string          `json:"method"`
	Params         json.RawMessage `json:"params,omitempty"`
	ID             *RequestID      `json:"id,omitempty"`
}

// Response answers a Request. Exactly one of Result and Error is set.
type Response struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
	ID             *RequestID      `json:"id,omitempty"`
}

// NewResultResponse marshals result into a success response for id.
func NewResultResponse(id *RequestID, result any) (*Response, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("jsonrpc: marshal result: %w", err)
	}
	return &Response{JSONRPCVersion: ProtocolVersion, Result: b, ID: id}, nil
}

// NewErrorResponse builds a failure response. Pass NewRequestID(nil) when the
// request id could not be read; it encodes as null.
func NewErrorResponse(id *RequestID, code ErrorCode, message string, data any) *Response {
	return &Response{
		JSONRPCVersion: ProtocolVersion,
		Error:          &Error{Code: code, Message: message, Data: data},
		ID:             id,
	}
}

// UnmarshalJSON decodes m and rejects lines that break JSON-RPC 2.0 framing.
// Syntax errors wrap ErrInvalidJSON; framing errors wrap ErrInvalidMessage.
func (m *AnyMessage) UnmarshalJSON(data []byte) error {
	// plain has the same fields without this method, so decoding into it
	// does not recurse.
	type plain AnyMessage
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	msg := AnyMessage(p)
	if err := msg.validate(); err != nil {
		return err
	}
	*m = msg
	return nil
}

func (m *AnyMessage) validate() error {
	if m.JSONRPCVersion != ProtocolVersion {
		return fmt.Errorf("%w: jsonrpc must be %q, got %q", ErrInvalidMessage, ProtocolVersion, m.JSONRPCVersion)
	}
	hasResult, hasError := len(m.Result) > 0, m.Error != nil
	switch {
	case m.Method != "" && (hasResult || hasError):
		return fmt.Errorf("%w: a request carries neither result nor error", ErrInvalidMessage)
	case m.Method == "" && hasResult == hasError:
		return fmt.Errorf("%w: a response carries exactly one of result and error", ErrInvalidMessage)
	}
	return nil
}

// Kind classifies a decoded message. A method without an id member is a
// notification.
func (m *AnyMessage) Kind() Kind {
	switch {
	case m.Method == "":
		return KindResponse
	case m.ID == nil:
		return KindNotification
	default:
		return KindRequest
	}
}

// AsRequest views a request or notification as a Request; nil for responses.
func (m *AnyMessage) AsRequest() *Request {
	if m.Kind() == KindResponse {
		return nil
	}
	return &Request{JSONRPCVersion: m.JSONRPCVersion, Method: m.Method, Params: m.Params, ID: m.ID}
}

// AsResponse views a response as a Response; nil for anything else.
func (m *AnyMessage) AsResponse() *Response {
	if m.Kind() != KindResponse {
		return nil
	}
	return &Response{JSONRPCVersion: m.JSONRPCVersion, Result: m.Result, Error: m.Error, ID: m.ID}
}
