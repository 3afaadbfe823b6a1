// Package config provides the configuration of the agent:
// the system prompt, the LLM provider and the tool servers.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/mcp"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "config")

// Supported providers
const (
	ProviderOpenAI    = "openai"
	ProviderAzure     = "azure"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderVertex    = "vertex"
	ProviderBedrock   = "bedrock"
)

// APIKeyEnvVars are the environment variables of the API key by provider,
// in the order of precedence.
var APIKeyEnvVars = map[string][]string{
	ProviderOpenAI:    {"OPENAI_API_KEY"},
	ProviderAzure:     {"AZURE_OPENAI_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	ProviderGoogle:    {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
}

// Config of the agent
type Config struct {
	// SystemPrompt is the template of the system prompt
	SystemPrompt string `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty" toml:"systemPrompt,omitempty"`
	// PromptInput are additional values for the system prompt template
	PromptInput map[string]any `json:"promptInput,omitempty" yaml:"promptInput,omitempty" toml:"promptInput,omitempty"`
	// LLM specifies the provider
	LLM *LLMConfig `json:"llm" yaml:"llm" toml:"llm" validate:"required"`
	// MCPServers are the tool servers by alias
	MCPServers map[string]*mcp.ServerConfig `json:"mcpServers,omitempty" yaml:"mcpServers,omitempty" toml:"mcpServers,omitempty" validate:"dive,keys,required,endkeys,required"`
}

// LLMConfig specifies the LLM provider
type LLMConfig struct {
	// Provider is one of openai|azure|anthropic|google|vertex|bedrock
	Provider    string   `json:"provider" yaml:"provider" toml:"provider" validate:"required,oneof=openai azure anthropic google vertex bedrock"`
	Model       string   `json:"model,omitempty" yaml:"model,omitempty" toml:"model,omitempty" validate:"required_if=Provider azure"`
	APIKey      string   `json:"api_key,omitempty" yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" toml:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int      `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" toml:"max_tokens,omitempty" validate:"gte=0"`
	BaseURL     string   `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty" validate:"omitempty,url"`
	// APIVersion is the Azure OpenAI API version
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty" toml:"api_version,omitempty"`
	// DefaultHeaders are added to every OpenAI request
	DefaultHeaders map[string]string `json:"default_headers,omitempty" yaml:"default_headers,omitempty" toml:"default_headers,omitempty"`
	// Region is the AWS region for Bedrock, or the location for Vertex
	Region string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`
	// Project is the Google Cloud project for Vertex
	Project string `json:"project,omitempty" yaml:"project,omitempty" toml:"project,omitempty" validate:"required_if=Provider vertex"`
	// MaxTurns caps the number of model turns in a run, 0 means unlimited
	MaxTurns int `json:"max_turns,omitempty" yaml:"max_turns,omitempty" toml:"max_turns,omitempty" validate:"gte=0"`
}

// Load returns the configuration from the file.
// YAML and JSON files are expanded with the environment variables.
func Load(file string) (*Config, error) {
	cfg := new(Config)

	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".yaml", ".yml", ".json":
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.Mark(errors.WithMessagef(err, "failed to load %q", file), tools.ErrConfiguration)
		}
	case ".toml":
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "failed to load %q", file), tools.ErrConfiguration)
		}
	default:
		return nil, errors.Mark(errors.Newf("unsupported config format: %q", file), tools.ErrConfiguration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "invalid config %q", file)
	}

	logger.KV(xlog.DEBUG,
		"status", "loaded",
		"file", file,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"servers", cfg.ServerNames(),
	)
	return cfg, nil
}

// Validate applies the defaults and validates the configuration
func (c *Config) Validate() error {
	if c.LLM != nil {
		c.LLM.applyDefaults()
	}
	if err := validator.New().Struct(c); err != nil {
		return errors.Mark(errors.WithStack(err), tools.ErrConfiguration)
	}
	for alias := range c.MCPServers {
		if strings.Contains(alias, tools.Separator) {
			return errors.Mark(errors.Newf("server alias %q must not contain %q", alias, tools.Separator), tools.ErrConfiguration)
		}
	}
	return nil
}

// ServerNames returns the sorted aliases of the tool servers
func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.MCPServers))
	for alias := range c.MCPServers {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

func (c *LLMConfig) applyDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.MaxTokens = values.NumbersCoalesce(c.MaxTokens, llms.DefaultMaxTokens)
	if c.Temperature == nil {
		c.Temperature = new(float64)
	}
	if c.APIKey == "" {
		for _, env := range APIKeyEnvVars[c.Provider] {
			if key := os.Getenv(env); key != "" {
				c.APIKey = key
				break
			}
		}
	}
}
