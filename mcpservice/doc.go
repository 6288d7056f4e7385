// Package mcpservice provides building blocks for implementing MCP server
// capabilities: the ServerCapabilities and ToolsCapability interfaces consumed
// by the stdio transport, an ordered ToolsContainer, and NewParamTool, which
// fronts a handler with a params.Pipeline.
//
// Quick start:
//
//	p := params.NewPipeline([]params.FieldSpec{
//	    params.Integer("unit_id", params.Required(), params.Min(1)),
//	})
//	tools := mcpservice.NewToolsContainer(
//	    mcpservice.NewParamTool("get_unit", p,
//	        func(ctx context.Context, w mcpservice.ToolResponseWriter, args *params.ParameterMap) error {
//	            return w.AppendText("unit query: " + args.Encode())
//	        },
//	        mcpservice.WithToolDescription("Fetch one unit"),
//	    ),
//	)
//
//	srv := mcpservice.NewServer(
//	    mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "example", Version: "1.0.0"}),
//	    mcpservice.WithToolsCapability(tools),
//	)
//
// Tool argument failures never become JSON-RPC errors: NewParamTool answers
// them with a CallToolResult whose IsError is set, so the model sees which
// field was wrong and why.
package mcpservice
