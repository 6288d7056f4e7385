// Package mcpservice defines the capability interfaces that an MCP server
// exposes to a transport, plus the containers and helpers used to build them.
//
// Conventions used throughout this package:
//   - Capability discovery methods return (cap, ok, err). A false ok indicates
//     that the capability is not supported; err is reserved for unexpected
//     failures while determining support.
//   - All methods accept a context.Context which MUST be honored for
//     cancellation.
//   - Pagination uses the Page[T] type in this package; a nil cursor requests
//     the first page.
package mcpservice

import (
	"context"

	"github.com/ggoodman/pms-mcp/mcp"
)

type ServerCapabilities interface {
	// GetServerInfo returns implementation information that is surfaced in
	// initialize results (name, version, etc.).
	GetServerInfo(ctx context.Context) (mcp.ImplementationInfo, error)

	// GetPreferredProtocolVersion returns the server's preferred MCP protocol
	// version. If ok is false, the transport negotiates from the client's
	// requested version alone.
	GetPreferredProtocolVersion(ctx context.Context) (version string, ok bool, err error)

	// GetInstructions returns optional human-readable instructions surfaced to
	// the client during initialization.
	GetInstructions(ctx context.Context) (instructions string, ok bool, err error)

	// GetToolsCapability returns the tools capability. If ok is false, the
	// transport does not advertise tools and rejects tools/* methods.
	GetToolsCapability(ctx context.Context) (cap ToolsCapability, ok bool, err error)
}

// ToolsCapability lists and invokes tools. Implementations MUST be safe for
// concurrent use.
type ToolsCapability interface {
	// ListTools returns a (possibly paginated) page of tool descriptors.
	ListTools(ctx context.Context, cursor *string) (Page[mcp.Tool], error)

	// CallTool invokes a tool. Failures that the model should see (bad
	// arguments, upstream rejections) are returned as a result with IsError
	// set; a non-nil error means the call could not be dispatched at all.
	CallTool(ctx context.Context, req *mcp.CallToolRequestReceived) (*mcp.CallToolResult, error)
}
