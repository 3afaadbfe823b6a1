// Package tools defines the local tool contract and the Registry that merges
// local tools with the tools of remote MCP servers into one flat catalog of
// qualified names, and dispatches invocations to the owning backend.
package tools
