package jsonrpc

import "fmt"

// ErrorCode is the numeric code of a JSON-RPC error object.
type ErrorCode int

// Codes used by the stdio transport. Tool argument failures never use these;
// they come back inside a successful tools/call result.
const (
	ErrorCodeParseError ErrorCode = -32700
	// ErrorCodeInvalidRequest also covers requests sent before initialize.
	ErrorCodeInvalidRequest ErrorCode = -32600
	ErrorCodeMethodNotFound ErrorCode = -32601
	// ErrorCodeInvalidParams means the params member itself would not decode.
	ErrorCodeInvalidParams ErrorCode = -32602
	ErrorCodeInternalError ErrorCode = -32603
)

// Error is the error member of a Response.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}
