// Package stdio implements a single-connection MCP transport over
// stdin/stdout. It is how desktop MCP clients launch the connector: as a
// subprocess speaking newline-delimited JSON-RPC on its standard streams.
//
// Characteristics
//
//	Connection model : 1 process <-> 1 client
//	Auth             : none (the parent process is trusted)
//	Sessions         : one per Serve call, identified by a random id in logs
//	Transport        : newline-delimited JSON-RPC 2.0
//
// Methods served: initialize, ping, tools/list, tools/call, plus the
// notifications/initialized and notifications/cancelled notifications. Other
// requests get -32601; requests other than ping sent before initialize get
// -32600. Standard output carries protocol traffic only, so logs must go to
// standard error.
//
// Example:
//
//	srv := mcpservice.NewServer(
//	    mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "pms-mcp", Version: "0.1.0"}),
//	    mcpservice.WithToolsCapability(tools),
//	)
//	h := stdio.NewHandler(srv, stdio.WithLogger(logger))
//	if err := h.Serve(ctx); err != nil { log.Fatal(err) }
package stdio
