package tools

import (
	"strings"

	"github.com/effective-security/mcpagent/mcp"
	"github.com/effective-security/mcpagent/pkg/schema"
)

// Separator joins a server alias and a remote tool name.
const Separator = "--"

// QualifiedName is a parsed tool name.
type QualifiedName struct {
	// Alias is the server alias, empty for local tools
	Alias string
	// Name is the local tool name, or the tool name on the server
	Name string
	// Remote is set when the name contains the Separator
	Remote bool
}

// ParseName splits the name at the first Separator:
// the prefix is the server alias and the remainder, which may contain more
// separators, is the name of the tool on that server.
// A name without a separator is a local tool name.
func ParseName(name string) QualifiedName {
	alias, remote, found := strings.Cut(name, Separator)
	if !found {
		return QualifiedName{Name: name}
	}
	return QualifiedName{
		Alias:  alias,
		Name:   remote,
		Remote: true,
	}
}

// RemoteName returns the qualified name of a remote tool.
func RemoteName(alias, name string) string {
	return alias + Separator + name
}

// String returns the qualified name
func (q QualifiedName) String() string {
	if q.Remote {
		return RemoteName(q.Alias, q.Name)
	}
	return q.Name
}

// Backend is the executor of a tool: *LocalBackend or *RemoteBackend.
type Backend interface {
	backend()
}

// LocalBackend is a tool implemented in process.
type LocalBackend struct {
	Tool ITool
}

// RemoteBackend is a tool served by a remote connection.
type RemoteBackend struct {
	// Alias is the configured server alias
	Alias string
	// Name is the tool name on the server
	Name string
	Conn mcp.Connection
}

func (*LocalBackend) backend()  {}
func (*RemoteBackend) backend() {}

// Descriptor describes a tool in the catalog.
type Descriptor struct {
	// Name is the qualified name, unique in the catalog
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// InputSchema is the canonical schema of the arguments,
	// it must not be modified
	InputSchema *schema.Schema `json:"input_schema" yaml:"-"`
	Backend     Backend        `json:"-" yaml:"-"`
}

// IsRemote returns true if the tool is served by a remote connection.
func (d *Descriptor) IsRemote() bool {
	_, ok := d.Backend.(*RemoteBackend)
	return ok
}

// Source returns the server alias of a remote tool, or "local".
func (d *Descriptor) Source() string {
	if rb, ok := d.Backend.(*RemoteBackend); ok {
		return rb.Alias
	}
	return "local"
}
