package mcp

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/xlog"
	"github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "mcp")

// stdioConnection is a connection to a server process over stdin/stdout.
type stdioConnection struct {
	alias  string
	client *client.Client
}

var _ Connection = (*stdioConnection)(nil)

// Connect starts the server process and completes the handshake.
func Connect(ctx context.Context, alias string, cfg *ServerConfig, info ClientInfo) (Connection, error) {
	if cfg == nil || cfg.Command == "" {
		return nil, errors.Newf("server %q: command is required", alias)
	}

	c, err := client.NewStdioMCPClient(cfg.Command, cfg.Environ(), cfg.Args...)
	if err != nil {
		return nil, errors.Wrapf(err, "server %q: failed to start %s", alias, cfg.Command)
	}

	req := mcpgo.InitializeRequest{}
	req.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcpgo.Implementation{
		Name:    info.Name,
		Version: info.Version,
	}

	res, err := c.Initialize(ctx, req)
	if err != nil {
		_ = c.Close()
		return nil, errors.Wrapf(err, "server %q: failed to initialize", alias)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "connected",
		"alias", alias,
		"server", res.ServerInfo.Name,
		"version", res.ServerInfo.Version,
		"protocol", res.ProtocolVersion,
	)

	return &stdioConnection{
		alias:  alias,
		client: c,
	}, nil
}

func (c *stdioConnection) ListTools(ctx context.Context) ([]Tool, error) {
	res, err := c.client.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, errors.Wrapf(err, "server %q: failed to list tools", c.alias)
	}

	list := make([]Tool, 0, len(res.Tools))
	for _, t := range res.Tools {
		s, err := inputSchema(t)
		if err != nil {
			return nil, errors.WithMessagef(err, "server %q: tool %q", c.alias, t.Name)
		}
		list = append(list, Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: s,
		})
	}
	return list, nil
}

func (c *stdioConnection) CallTool(ctx context.Context, name string, args map[string]any) (*CallResult, error) {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.client.CallTool(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "server %q: failed to call %s", c.alias, name)
	}

	result := &CallResult{
		IsError: res.IsError,
	}
	for _, content := range res.Content {
		result.Content = append(result.Content, toContent(content))
	}
	return result, nil
}

func (c *stdioConnection) Close() error {
	return errors.Wrapf(c.client.Close(), "server %q: failed to close", c.alias)
}

// inputSchema returns the tool schema as advertised on the wire,
// the raw schema takes precedence over the typed one.
func inputSchema(t mcpgo.Tool) (*schema.Schema, error) {
	js, err := json.Marshal(t)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var wire struct {
		InputSchema json.RawMessage `json:"inputSchema"`
	}
	if err = json.Unmarshal(js, &wire); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(wire.InputSchema) == 0 || string(wire.InputSchema) == "null" {
		return schema.Object(nil), nil
	}
	return schema.Parse(wire.InputSchema)
}

func toContent(c mcpgo.Content) Content {
	switch tc := c.(type) {
	case mcpgo.TextContent:
		return Content{Type: ContentTypeText, Text: tc.Text}
	case *mcpgo.TextContent:
		return Content{Type: ContentTypeText, Text: tc.Text}
	}

	var typed struct {
		Type string `json:"type"`
	}
	if js, err := json.Marshal(c); err == nil {
		_ = json.Unmarshal(js, &typed)
	}
	return Content{Type: typed.Type}
}
