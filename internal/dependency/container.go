// Package dependency wires the agent services using go.uber.org/dig:
// configuration, tool registry, provider adapter and assistant.
package dependency

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/config"
	"github.com/effective-security/mcpagent/mcp"
	"github.com/effective-security/mcpagent/pkg/llmfactory"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/mcpagent/tools/md5"
	"github.com/effective-security/mcpagent/tools/tavily"
	"github.com/effective-security/xlog"
	"go.uber.org/dig"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "dependency")

// Options of the Container
type Options struct {
	// ClientInfo identifies the agent to the tool servers
	ClientInfo mcp.ClientInfo
	// Connector launches the tool servers, default is mcp.Connect
	Connector mcp.Connector
	// Callback receives the events of the runs
	Callback assistants.Callback
	// LocalTools are registered in addition to the default ones
	LocalTools []tools.ITool
}

// Option configures the Container
type Option func(*Options)

// WithClientInfo sets the client identity presented to the tool servers
func WithClientInfo(name, version string) Option {
	return func(o *Options) {
		o.ClientInfo = mcp.ClientInfo{Name: name, Version: version}
	}
}

// WithConnector sets the factory of tool server connections
func WithConnector(connector mcp.Connector) Option {
	return func(o *Options) {
		o.Connector = connector
	}
}

// WithCallback sets the callback of the assistant
func WithCallback(callback assistants.Callback) Option {
	return func(o *Options) {
		o.Callback = callback
	}
}

// WithLocalTools adds local tools to the registry
func WithLocalTools(list ...tools.ITool) Option {
	return func(o *Options) {
		o.LocalTools = append(o.LocalTools, list...)
	}
}

// Container resolves the services on first use.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	ctx  context.Context
	cfg  *config.Config
	opts Options
	dig  *dig.Container

	registry *tools.Registry
}

// New builds the container from cfg.
// Services are created on first use, and the tool servers are
// launched by the first call to Registry.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	c := &Container{
		ctx: ctx,
		cfg: cfg,
		opts: Options{
			ClientInfo: mcp.ClientInfo{Name: "mcpagent", Version: "dev"},
			Connector:  mcp.Connect,
		},
		dig: dig.New(),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}

	providers := []any{
		func() *config.Config { return cfg },
		c.newRegistry,
		c.newAdapter,
		c.newAssistant,
	}
	for _, p := range providers {
		if err := c.dig.Provide(p); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return c, nil
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.cfg
}

// Registry returns the tool registry with the tool servers initialized
func (c *Container) Registry() (*tools.Registry, error) {
	var r *tools.Registry
	err := c.invoke(func(registry *tools.Registry) {
		r = registry
	})
	return r, err
}

// Adapter returns the adapter of the configured provider
func (c *Container) Adapter() (llms.Adapter, error) {
	var a llms.Adapter
	err := c.invoke(func(adapter llms.Adapter) {
		a = adapter
	})
	return a, err
}

// Assistant returns the assistant
func (c *Container) Assistant() (*assistants.Assistant, error) {
	var a *assistants.Assistant
	err := c.invoke(func(assistant *assistants.Assistant) {
		a = assistant
	})
	return a, err
}

// Close shuts down the tool servers, if they were started
func (c *Container) Close(ctx context.Context) error {
	if c.registry == nil {
		return nil
	}
	return c.registry.Shutdown(ctx)
}

func (c *Container) invoke(fn any) error {
	if err := c.dig.Invoke(fn); err != nil {
		// return the error of the provider, not the dig wrapping
		return dig.RootCause(err)
	}
	return nil
}

func (c *Container) newRegistry(cfg *config.Config) (*tools.Registry, error) {
	registry := tools.NewRegistry(
		tools.WithConnector(c.opts.Connector),
		tools.WithClientInfo(c.opts.ClientInfo),
	)

	local := []tools.ITool{md5.New()}
	if search, err := tavily.New(); err == nil {
		local = append(local, search)
	} else {
		logger.KV(xlog.DEBUG, "status", "skipped", "tool", tavily.ToolName, "reason", err.Error())
	}
	local = append(local, c.opts.LocalTools...)

	for _, tool := range local {
		if err := registry.RegisterLocal(tool); err != nil {
			return nil, err
		}
	}

	// keep the registry for Close, also when some servers failed
	c.registry = registry
	if err := registry.Initialize(c.ctx, cfg.MCPServers); err != nil {
		return nil, err
	}
	return registry, nil
}

func (c *Container) newAdapter(cfg *config.Config) (llms.Adapter, error) {
	return llmfactory.NewLLM(c.ctx, cfg.LLM)
}

func (c *Container) newAssistant(cfg *config.Config, adapter llms.Adapter, registry *tools.Registry) *assistants.Assistant {
	opts := []assistants.Option{
		assistants.WithSystemPrompt(cfg.SystemPrompt),
		assistants.WithPromptInput(cfg.PromptInput),
		assistants.WithCallback(c.opts.Callback),
	}
	if cfg.LLM != nil {
		opts = append(opts, assistants.WithMaxTurns(cfg.LLM.MaxTurns))
	}
	return assistants.New(adapter, registry, opts...)
}
