// Package llms provides the provider-neutral conversation model and the
// Adapter contract implemented by each LLM provider.
//
// The conversation loop in the assistants package drives an Adapter:
// it advertises tools with DescribeTool, sends the conversation with SendTurn
// and reads the requested tool calls with ExtractInvocations.
// Each subpackage translates the neutral model into the provider wire format.
package llms
