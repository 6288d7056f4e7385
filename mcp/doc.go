// Package mcp contains the Model Context Protocol data types and constants
// this server speaks: the initialize handshake, ping, and the tools methods.
// Types mirror the wire representation (exported structs with json tags,
// string constants for method names).
//
// The package is free of transport logic. The stdio transport marshals these
// types; mcpservice builds them.
//
// Example (tool result construction):
//
//	res := &mcp.CallToolResult{
//	    Content: []mcp.ContentBlock{{Type: mcp.ContentTypeText, Text: "hello"}},
//	}
package mcp
