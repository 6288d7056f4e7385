package mcpservice

import (
	"context"

	"github.com/ggoodman/pms-mcp/mcp"
)

// ServerOption configures a concrete ServerCapabilities implementation.
type ServerOption func(*server)

type server struct {
	info            mcp.ImplementationInfo
	protocolVersion string
	instructions    *string
	tools           ToolsCapability
}

// NewServer builds a ServerCapabilities using functional options.
func NewServer(opts ...ServerOption) ServerCapabilities {
	s := &server{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithServerInfo sets the server info returned from initialize.
func WithServerInfo(info mcp.ImplementationInfo) ServerOption {
	return func(s *server) { s.info = info }
}

// WithPreferredProtocolVersion pins the protocol version offered to clients.
func WithPreferredProtocolVersion(version string) ServerOption {
	return func(s *server) { s.protocolVersion = version }
}

// WithInstructions sets human-readable instructions returned during initialize.
func WithInstructions(instr string) ServerOption {
	return func(s *server) { s.instructions = &instr }
}

// WithToolsCapability wires the tools capability.
func WithToolsCapability(cap ToolsCapability) ServerOption {
	return func(s *server) { s.tools = cap }
}

// GetServerInfo implements ServerCapabilities.
func (s *server) GetServerInfo(ctx context.Context) (mcp.ImplementationInfo, error) {
	return s.info, nil
}

// GetPreferredProtocolVersion implements ServerCapabilities.
func (s *server) GetPreferredProtocolVersion(ctx context.Context) (string, bool, error) {
	if s.protocolVersion != "" {
		return s.protocolVersion, true, nil
	}
	return "", false, nil
}

// GetInstructions implements ServerCapabilities.
func (s *server) GetInstructions(ctx context.Context) (string, bool, error) {
	if s.instructions != nil {
		return *s.instructions, true, nil
	}
	return "", false, nil
}

// GetToolsCapability implements ServerCapabilities.
func (s *server) GetToolsCapability(ctx context.Context) (ToolsCapability, bool, error) {
	if s.tools != nil {
		return s.tools, true, nil
	}
	return nil, false, nil
}
