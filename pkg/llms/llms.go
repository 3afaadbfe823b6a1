package llms

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/tools"
)

//go:generate mockgen -source=llms.go -destination=../../mocks/mockllms/llms_mock.gen.go -package mockllms

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderAnthropic is the type of provider.
	ProviderAnthropic ProviderType = "ANTHROPIC"
	// ProviderAzure is the type of provider.
	ProviderAzure ProviderType = "AZURE"
	// ProviderBedrock is the type of provider.
	ProviderBedrock ProviderType = "BEDROCK"
	// ProviderGoogleAI is the type of provider.
	ProviderGoogleAI ProviderType = "GOOGLEAI"
	// ProviderOpenAI is the type of provider.
	ProviderOpenAI ProviderType = "OPENAI"
)

// ProviderTypes is the list of supported providers
var ProviderTypes = []ProviderType{
	ProviderAnthropic,
	ProviderAzure,
	ProviderBedrock,
	ProviderGoogleAI,
	ProviderOpenAI,
}

// ParseProviderType returns the provider by case-insensitive name.
// "gemini" and "vertex" are aliases of GOOGLEAI, "claude" of ANTHROPIC.
func ParseProviderType(name string) (ProviderType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ANTHROPIC", "CLAUDE":
		return ProviderAnthropic, nil
	case "AZURE", "AZURE_OPENAI":
		return ProviderAzure, nil
	case "BEDROCK":
		return ProviderBedrock, nil
	case "GOOGLEAI", "GEMINI", "VERTEX", "VERTEXAI":
		return ProviderGoogleAI, nil
	case "OPENAI":
		return ProviderOpenAI, nil
	}
	return "", errors.Newf("unsupported provider: %q", name)
}

// Capability is a bitmask indicating supported features of an LLM provider.
type Capability uint64

const (
	// Basic text or chat generation
	CapabilityText Capability = 1 << iota

	// Function/tool calling
	CapabilityFunctionCalling
	CapabilityMultiToolCalling

	// Tool schemas are enforced in strict mode
	CapabilityStrictSchema

	// Tool results can be flagged as errors natively
	CapabilityToolResultError

	// System prompt support
	CapabilitySystemPrompt
)

var providerCapabilities = map[ProviderType]Capability{
	ProviderOpenAI: CapabilityText |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilityStrictSchema |
		CapabilitySystemPrompt,

	ProviderAzure: CapabilityText |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilityStrictSchema |
		CapabilitySystemPrompt,

	ProviderAnthropic: CapabilityText |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilityToolResultError |
		CapabilitySystemPrompt,

	// Use Bedrock with Anthropic models
	ProviderBedrock: CapabilityText |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilityToolResultError |
		CapabilitySystemPrompt,

	ProviderGoogleAI: CapabilityText |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilitySystemPrompt,
}

// ProviderCapabilities returns the capabilities of the provider
func ProviderCapabilities(pt ProviderType) Capability {
	return providerCapabilities[pt]
}

// Supports returns true if the provider supports the capability
func (p ProviderType) Supports(cap Capability) bool {
	return ProviderCapabilities(p)&cap != 0
}

// ErrProviderRequest is returned when a request to the provider fails:
// transport error, non-success status, malformed response or refusal.
var ErrProviderRequest = errors.New("provider request failed")

// ToolSpec is a tool advertisement in the provider wire format.
type ToolSpec struct {
	// Name is the qualified tool name
	Name string
	// Native is the provider specific value, produced and consumed
	// by the same Adapter
	Native any
}

// Adapter translates the neutral conversation into a provider wire format.
type Adapter interface {
	// ProviderType returns the type of provider.
	ProviderType() ProviderType
	// ModelName returns the model identifier.
	ModelName() string
	// DescribeTool renders the tool descriptor as a provider tool advertisement.
	DescribeTool(d *tools.Descriptor) (ToolSpec, error)
	// SendTurn sends the whole conversation with the advertised tools,
	// and returns the model reply.
	// Failures are returned as ErrProviderRequest.
	SendTurn(ctx context.Context, conv *Conversation, specs []ToolSpec) (*Reply, error)
	// ExtractInvocations returns the tool calls requested in the reply,
	// in the order of the reply.
	ExtractInvocations(reply *Reply) []Invocation
}
