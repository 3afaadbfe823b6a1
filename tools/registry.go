package tools

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/mcp"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/xlog"
	"golang.org/x/sync/errgroup"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "tools")

// RegistryOptions are the options of the Registry
type RegistryOptions struct {
	Connector  mcp.Connector
	ClientInfo mcp.ClientInfo
}

// RegistryOption is a function that configures a Registry
type RegistryOption func(*RegistryOptions)

// WithConnector sets the factory of remote connections, default is mcp.Connect
func WithConnector(connector mcp.Connector) RegistryOption {
	return func(o *RegistryOptions) {
		o.Connector = connector
	}
}

// WithClientInfo sets the client identity presented to remote servers
func WithClientInfo(info mcp.ClientInfo) RegistryOption {
	return func(o *RegistryOptions) {
		o.ClientInfo = info
	}
}

// Registry is the catalog of local and remote tools,
// and the dispatcher of tool calls.
type Registry struct {
	opts RegistryOptions

	lock        sync.RWMutex
	local       []*Descriptor
	remote      []*Descriptor
	byName      map[string]*Descriptor
	connections map[string]mcp.Connection

	closeOnce sync.Once
	closeErr  error
}

// NewRegistry returns an empty Registry
func NewRegistry(opts ...RegistryOption) *Registry {
	ro := RegistryOptions{
		Connector: mcp.Connect,
		ClientInfo: mcp.ClientInfo{
			Name:    "mcpagent",
			Version: "dev",
		},
	}
	for _, opt := range opts {
		opt(&ro)
	}
	return &Registry{
		opts:        ro,
		byName:      make(map[string]*Descriptor),
		connections: make(map[string]mcp.Connection),
	}
}

// RegisterLocal adds an in-process tool to the catalog.
func (r *Registry) RegisterLocal(tool ITool) error {
	if tool == nil {
		return errors.Mark(errors.New("tool is nil"), ErrConfiguration)
	}
	name := tool.Name()
	if name == "" {
		return errors.Mark(errors.New("tool name is empty"), ErrConfiguration)
	}
	if strings.Contains(name, Separator) {
		return errors.Mark(errors.Newf("tool name %q must not contain %q", name, Separator), ErrConfiguration)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byName[name]; ok {
		return errors.Mark(errors.Newf("tool %q already registered", name), ErrDuplicateTool)
	}

	d := &Descriptor{
		Name:        name,
		Description: tool.Description(),
		InputSchema: tool.Parameters(),
		Backend:     &LocalBackend{Tool: tool},
	}
	r.local = append(r.local, d)
	r.byName[name] = d

	logger.KV(xlog.DEBUG, "status", "registered", "tool", name)
	return nil
}

type serverResult struct {
	alias string
	conn  mcp.Connection
	tools []mcp.Tool
	err   error
}

// Initialize connects to every remote server concurrently and adds
// its tools to the catalog as `alias--name`.
// It waits for all servers to settle. Failed servers are combined into
// ErrToolServerUnavailable; connections that did open are kept for Shutdown.
func (r *Registry) Initialize(ctx context.Context, servers map[string]*mcp.ServerConfig) error {
	aliases := make([]string, 0, len(servers))
	for alias := range servers {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	r.lock.RLock()
	for _, alias := range aliases {
		var err error
		switch {
		case alias == "":
			err = errors.New("server alias is empty")
		case strings.Contains(alias, Separator):
			err = errors.Newf("server alias %q must not contain %q", alias, Separator)
		case servers[alias] == nil:
			err = errors.Newf("server %q: configuration is empty", alias)
		case r.connections[alias] != nil:
			err = errors.Newf("server %q already initialized", alias)
		}
		if err != nil {
			r.lock.RUnlock()
			return errors.Mark(err, ErrConfiguration)
		}
	}
	r.lock.RUnlock()

	results := make([]serverResult, len(aliases))

	// errgroup is used only to wait: every goroutine returns nil,
	// so one failed server does not cancel the others
	var g errgroup.Group
	for i, alias := range aliases {
		g.Go(func() error {
			results[i] = r.connect(ctx, alias, servers[alias])
			return nil
		})
	}
	_ = g.Wait()

	r.lock.Lock()
	defer r.lock.Unlock()

	var failed []error
	for _, res := range results {
		if res.conn != nil {
			r.connections[res.alias] = res.conn
		}
		if res.err != nil {
			metricskey.StatsToolServerFailed.IncrCounter(1, res.alias)
			logger.ContextKV(ctx, xlog.ERROR,
				"status", "server_unavailable",
				"server", res.alias,
				"err", res.err.Error(),
			)
			failed = append(failed,
				errors.Mark(errors.WithMessagef(res.err, "server %q unavailable", res.alias), ErrToolServerUnavailable))
			continue
		}

		for _, t := range res.tools {
			name := RemoteName(res.alias, t.Name)
			if _, ok := r.byName[name]; ok {
				logger.ContextKV(ctx, xlog.WARNING,
					"status", "duplicate_remote_tool",
					"tool", name,
				)
				continue
			}
			d := &Descriptor{
				Name:        name,
				Description: t.Description,
				InputSchema: t.InputSchema,
				Backend: &RemoteBackend{
					Alias: res.alias,
					Name:  t.Name,
					Conn:  res.conn,
				},
			}
			r.remote = append(r.remote, d)
			r.byName[name] = d
		}

		logger.ContextKV(ctx, xlog.INFO,
			"status", "server_initialized",
			"server", res.alias,
			"tools", len(res.tools),
		)
	}

	return errors.Join(failed...)
}

func (r *Registry) connect(ctx context.Context, alias string, cfg *mcp.ServerConfig) serverResult {
	defer metricskey.PerfToolServerConnect.MeasureSince(time.Now(), alias)

	res := serverResult{alias: alias}
	conn, err := r.opts.Connector(ctx, alias, cfg, r.opts.ClientInfo)
	if err != nil {
		res.err = err
		return res
	}
	res.conn = conn

	res.tools, res.err = conn.ListTools(ctx)
	return res
}

// Catalog returns local tools in registration order, followed by
// remote tools in alias order.
func (r *Registry) Catalog() []*Descriptor {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*Descriptor, 0, len(r.local)+len(r.remote))
	list = append(list, r.local...)
	list = append(list, r.remote...)
	return list
}

// Lookup returns the descriptor by the qualified name
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// Dispatch executes a tool call by the qualified name.
func (r *Registry) Dispatch(ctx context.Context, name string, args Arguments) (string, error) {
	if args == nil {
		args = Arguments{}
	}

	backend, err := r.resolve(name)
	if err != nil {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"tool", name,
		)
		return "", err
	}

	started := time.Now()
	var res string
	switch b := backend.(type) {
	case *LocalBackend:
		res, err = b.Tool.Call(ctx, args)
		if err != nil {
			err = errors.Mark(errors.WithMessagef(err, "tool %q", name), ErrToolExecution)
		}
	case *RemoteBackend:
		res, err = callRemote(ctx, b, args)
	default:
		err = errors.Mark(errors.Newf("tool %q: unsupported backend %T", name, backend), ErrToolExecution)
	}
	metricskey.PerfToolCall.MeasureSince(started, name)

	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "tool_failed",
			"tool", name,
			"err", err.Error(),
		)
		return "", err
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_called",
		"tool", name,
		"output_length", len(res),
	)
	return res, nil
}

// resolve returns the backend for the name.
// A remote name with an open connection is forwarded as is,
// even if the server did not list the tool.
func (r *Registry) resolve(name string) (Backend, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	qn := ParseName(name)
	if !qn.Remote {
		d := r.byName[name]
		if d == nil {
			return nil, errors.Mark(errors.Newf("tool %q not found", name), ErrToolNotFound)
		}
		return d.Backend, nil
	}

	if d := r.byName[name]; d != nil {
		return d.Backend, nil
	}
	conn := r.connections[qn.Alias]
	if conn == nil || qn.Alias == "" {
		return nil, errors.Mark(errors.Newf("tool %q not found: no server %q", name, qn.Alias), ErrToolNotFound)
	}
	return &RemoteBackend{
		Alias: qn.Alias,
		Name:  qn.Name,
		Conn:  conn,
	}, nil
}

func callRemote(ctx context.Context, b *RemoteBackend, args Arguments) (string, error) {
	res, err := b.Conn.CallTool(ctx, b.Name, args)
	if err != nil {
		return "", errors.Mark(errors.WithMessagef(err, "server %q: tool %q", b.Alias, b.Name), ErrToolExecution)
	}
	text := res.Text()
	if res.IsError {
		return "", errors.Mark(errors.New(text), ErrToolExecution)
	}
	return text, nil
}

// Shutdown closes all remote connections concurrently, once.
// A failing close does not prevent the others, every failure is
// reported in the returned error.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.closeOnce.Do(func() {
		r.lock.RLock()
		aliases := make([]string, 0, len(r.connections))
		for alias := range r.connections {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		conns := make([]mcp.Connection, len(aliases))
		for i, alias := range aliases {
			conns[i] = r.connections[alias]
		}
		r.lock.RUnlock()

		errs := make([]error, len(aliases))
		var g errgroup.Group
		for i := range aliases {
			g.Go(func() error {
				if err := conns[i].Close(); err != nil {
					logger.ContextKV(ctx, xlog.WARNING,
						"status", "close_failed",
						"server", aliases[i],
						"err", err.Error(),
					)
					errs[i] = errors.WithMessagef(err, "server %q", aliases[i])
				}
				return nil
			})
		}
		_ = g.Wait()

		r.closeErr = errors.Join(errs...)
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "shutdown",
			"servers", len(aliases),
		)
	})
	return r.closeErr
}
