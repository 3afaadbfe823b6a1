package llmfactory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/config"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llms/anthropic"
	"github.com/effective-security/mcpagent/pkg/llms/bedrock"
	"github.com/effective-security/mcpagent/pkg/llms/googleai"
	"github.com/effective-security/mcpagent/pkg/llms/openai"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "llmfactory")

// Default models, when the configuration does not specify one
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-0"
)

// NewLLM is a wrapper for CreateLLM to allow for overriding the default implementation.
var NewLLM = CreateLLM

// CreateLLM returns the Adapter for the configured provider
func CreateLLM(ctx context.Context, cfg *config.LLMConfig) (llms.Adapter, error) {
	if cfg == nil {
		return nil, errors.Mark(errors.New("llm configuration is missing"), tools.ErrConfiguration)
	}

	var (
		adapter llms.Adapter
		err     error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		adapter, err = newOpenAI(cfg, llms.ProviderOpenAI)
	case config.ProviderAzure:
		adapter, err = newOpenAI(cfg, llms.ProviderAzure)
	case config.ProviderAnthropic:
		adapter, err = newAnthropic(cfg)
	case config.ProviderGoogle, config.ProviderVertex:
		adapter, err = newGoogleAI(ctx, cfg)
	case config.ProviderBedrock:
		adapter, err = newBedrock(ctx, cfg)
	default:
		return nil, errors.Mark(errors.Newf("unsupported provider: %q", cfg.Provider), tools.ErrConfiguration)
	}
	if err != nil {
		return nil, errors.Mark(errors.WithMessagef(err, "failed to create %s adapter", cfg.Provider), tools.ErrConfiguration)
	}

	logger.KV(xlog.DEBUG,
		"status", "created",
		"provider", adapter.ProviderType(),
		"model", adapter.ModelName(),
	)
	return adapter, nil
}

func callOptions(cfg *config.LLMConfig) []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithMaxTokens(cfg.MaxTokens),
	}
	if cfg.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*cfg.Temperature))
	}
	return opts
}

func newOpenAI(cfg *config.LLMConfig, provider llms.ProviderType) (llms.Adapter, error) {
	model := cfg.Model
	if provider == llms.ProviderOpenAI {
		model = values.StringsCoalesce(model, DefaultOpenAIModel)
	}
	opts := []openai.Option{
		openai.WithProvider(provider),
		openai.WithModel(model),
		openai.WithCallOptions(callOptions(cfg)...),
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIVersion != "" {
		opts = append(opts, openai.WithAPIVersion(cfg.APIVersion))
	}
	if len(cfg.DefaultHeaders) > 0 {
		opts = append(opts, openai.WithHeaders(cfg.DefaultHeaders))
	}
	return openai.New(opts...)
}

func newAnthropic(cfg *config.LLMConfig) (llms.Adapter, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(values.StringsCoalesce(cfg.Model, DefaultAnthropicModel)),
		anthropic.WithCallOptions(callOptions(cfg)...),
	}
	if cfg.APIKey != "" {
		opts = append(opts, anthropic.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	return anthropic.New(opts...)
}

func newGoogleAI(ctx context.Context, cfg *config.LLMConfig) (llms.Adapter, error) {
	opts := []googleai.Option{
		googleai.WithCallOptions(callOptions(cfg)...),
	}
	if cfg.Model != "" {
		opts = append(opts, googleai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, googleai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Provider == config.ProviderVertex {
		opts = append(opts, googleai.WithVertex(), googleai.WithCloudProject(cfg.Project))
		if cfg.Region != "" {
			opts = append(opts, googleai.WithCloudLocation(cfg.Region))
		}
	} else if cfg.APIKey != "" {
		opts = append(opts, googleai.WithAPIKey(cfg.APIKey))
	}
	return googleai.New(ctx, opts...)
}

func newBedrock(ctx context.Context, cfg *config.LLMConfig) (llms.Adapter, error) {
	opts := []bedrock.Option{
		bedrock.WithCallOptions(callOptions(cfg)...),
	}
	if cfg.Model != "" {
		opts = append(opts, bedrock.WithModel(cfg.Model))
	}
	if cfg.Region != "" {
		opts = append(opts, bedrock.WithRegion(cfg.Region))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, bedrock.WithBaseURL(cfg.BaseURL))
	}
	return bedrock.New(ctx, opts...)
}
