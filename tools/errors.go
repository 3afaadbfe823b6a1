package tools

import "github.com/cockroachdb/errors"

var (
	// ErrConfiguration is returned for malformed or missing configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrToolServerUnavailable is returned when a tool server can not be
	// started or enumerated.
	ErrToolServerUnavailable = errors.New("tool server unavailable")
	// ErrDuplicateTool is returned when a tool name is already registered.
	ErrDuplicateTool = errors.New("duplicate tool")
	// ErrToolNotFound is returned when a name matches neither a local tool
	// nor a connected server.
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolExecution is returned when a tool ran and failed.
	ErrToolExecution = errors.New("tool execution failed")
	// ErrInvalidArguments is returned when tool arguments can not be parsed.
	ErrInvalidArguments = errors.New("invalid tool arguments")
)
