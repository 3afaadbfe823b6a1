// Package llmfactory builds the provider Adapter from the `llm` configuration:
// OpenAI, Azure OpenAI, Anthropic, Gemini, Vertex AI and Bedrock.
package llmfactory
