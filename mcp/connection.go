// Package mcp provides connections to remote tool servers speaking the
// Model Context Protocol.
package mcp

import (
	"context"
	"sort"
	"strings"

	"github.com/effective-security/mcpagent/pkg/schema"
)

//go:generate mockgen -source=connection.go -destination=../mocks/mockmcp/connection_mock.gen.go -package mockmcp

// ServerConfig specifies how to launch a tool server process.
type ServerConfig struct {
	// Command is the executable to start
	Command string `json:"command" yaml:"command" toml:"command" validate:"required"`
	// Args are the command line arguments
	Args []string `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	// Env is appended to the environment of the current process
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
}

// Environ returns Env as sorted KEY=VALUE pairs.
func (c *ServerConfig) Environ() []string {
	env := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// ClientInfo identifies this client to the server during the handshake.
type ClientInfo struct {
	Name    string
	Version string
}

// Tool is a tool advertised by a server.
type Tool struct {
	Name        string
	Description string
	InputSchema *schema.Schema
}

// Content is one segment of a tool result.
type Content struct {
	// Type is the content type: text, image, audio, resource
	Type string
	// Text is set for the text content
	Text string
}

// ContentTypeText is the type of text segments
const ContentTypeText = "text"

// CallResult is the result of a tool call.
type CallResult struct {
	Content []Content
	// IsError is set when the tool reported a failure
	IsError bool
}

// Text returns the text segments joined with new line,
// segments of other types are dropped.
func (r *CallResult) Text() string {
	var parts []string
	for _, c := range r.Content {
		if c.Type == ContentTypeText {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Connection is an open connection to a tool server.
type Connection interface {
	// ListTools returns the tools advertised by the server.
	ListTools(ctx context.Context) ([]Tool, error)
	// CallTool invokes the tool by its name on the server.
	// A tool failure is reported by CallResult.IsError,
	// the returned error is for transport or protocol failures.
	CallTool(ctx context.Context, name string, args map[string]any) (*CallResult, error)
	// Close terminates the connection and the server process.
	Close() error
}

// Connector opens a connection to the server and completes the handshake.
type Connector func(ctx context.Context, alias string, cfg *ServerConfig, info ClientInfo) (Connection, error)
