package assistants

// Option is a function that can be used to modify the behavior of the Assistant.
type Option func(*Config)

// Config of the Assistant
type Config struct {
	// MaxTurns caps the number of model turns in a run,
	// 0 means unlimited.
	MaxTurns int
	// SystemPrompt is the template of the system prompt,
	// rendered with PromptInput on every run.
	SystemPrompt string
	// PromptInput are the values for the system prompt template,
	// `tools`, `provider` and `model` are always provided.
	PromptInput map[string]any
	// Callback receives the events of the run
	Callback Callback
}

// NewConfig returns the config with the options applied.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithMaxTurns caps the number of model turns, 0 means unlimited.
func WithMaxTurns(n int) Option {
	return func(o *Config) {
		if n >= 0 {
			o.MaxTurns = n
		}
	}
}

// WithSystemPrompt sets the system prompt template.
func WithSystemPrompt(prompt string) Option {
	return func(o *Config) {
		o.SystemPrompt = prompt
	}
}

// WithPromptInput sets the values of the system prompt template.
func WithPromptInput(input map[string]any) Option {
	return func(o *Config) {
		o.PromptInput = input
	}
}

// WithCallback sets the callback.
func WithCallback(callback Callback) Option {
	return func(o *Config) {
		o.Callback = callback
	}
}
