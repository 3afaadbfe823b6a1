package googleai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llms/googleai"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const functionCallResponse = `{
	"candidates": [{
		"content": {
			"role": "model",
			"parts": [
				{"text": "let me think", "thought": true},
				{"text": "hashing"},
				{"functionCall": {"name": "md5", "args": {"text": "hello"}}, "thoughtSignature": "c2lnLWZyb20tY2FsbA=="}
			]
		},
		"finishReason": "STOP"
	}],
	"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 4, "totalTokenCount": 16}
}`

func TestNew(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := googleai.New(context.Background())
	assert.EqualError(t, err, "googleai: missing API key, set it in the GOOGLE_API_KEY environment variable")

	_, err = googleai.New(context.Background(), googleai.WithAPIKey("key"), googleai.WithModel(""))
	assert.EqualError(t, err, "googleai: model is required")

	t.Setenv("GEMINI_API_KEY", "from-env")
	llm, err := googleai.New(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", llm.ModelName())
	assert.Equal(t, llms.ProviderGoogleAI, llm.ProviderType())
}

func TestFinishReason(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		reason   string
		hasCalls bool
		exp      llms.FinishReason
	}{
		{"STOP", false, llms.FinishReasonStop},
		{"STOP", true, llms.FinishReasonToolUse},
		{"MAX_TOKENS", false, llms.FinishReasonLength},
		{"SAFETY", false, llms.FinishReasonFiltered},
		{"RECITATION", false, llms.FinishReasonFiltered},
		{"MALFORMED_FUNCTION_CALL", false, llms.FinishReasonOther},
	}
	for _, tc := range tcases {
		assert.Equal(t, tc.exp, googleai.FinishReason(tc.reason, tc.hasCalls), tc.reason)
	}
}

func TestToContents(t *testing.T) {
	t.Parallel()

	conv := llms.NewConversation("", "hash hello")
	conv.Append(
		llms.Message{Role: llms.RoleAssistant, Parts: []llms.Part{
			llms.TextPart{Text: "hashing"},
			llms.ToolCallPart{ID: "c1", Name: "md5", Input: `{"text":"hello"}`, Signature: []byte("sig")},
			llms.ToolCallPart{ID: "c2", Name: "fs--read", Input: `{"path":`},
		}},
		llms.Message{Role: llms.RoleTool, Parts: []llms.Part{llms.Ok("c1", "md5", "5d41402abc4b2a76b9719d911017c592")}},
		llms.Message{Role: llms.RoleTool, Parts: []llms.Part{llms.Error("c2", "fs--read", "no such file")}},
	)

	contents, err := googleai.ToContents(conv.Messages)
	require.NoError(t, err)
	require.Len(t, contents, 3)

	assert.Equal(t, googleai.RoleUser, contents[0].Role)
	assert.Equal(t, googleai.RoleModel, contents[1].Role)
	require.Len(t, contents[1].Parts, 3)
	assert.Equal(t, "hashing", contents[1].Parts[0].Text)
	assert.Equal(t, map[string]any{"text": "hello"}, contents[1].Parts[1].FunctionCall.Args)
	assert.Empty(t, contents[1].Parts[2].FunctionCall.Args)
	assert.Equal(t, []byte("sig"), contents[1].Parts[1].ThoughtSignature)
	assert.Nil(t, contents[1].Parts[2].ThoughtSignature)

	// both tool results are merged into one user content
	assert.Equal(t, googleai.RoleUser, contents[2].Role)
	require.Len(t, contents[2].Parts, 2)
	ok := contents[2].Parts[0].FunctionResponse
	assert.Equal(t, "c1", ok.ID)
	assert.Equal(t, "md5", ok.Name)
	assert.Equal(t, map[string]any{"output": "5d41402abc4b2a76b9719d911017c592"}, ok.Response)
	assert.Equal(t, map[string]any{"error": "no such file"}, contents[2].Parts[1].FunctionResponse.Response)
}

func TestSendTurn(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "models/gemini-test:generateContent")

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(functionCallResponse))
	}))
	defer server.Close()

	llm, err := googleai.New(context.Background(),
		googleai.WithAPIKey("fake-key"),
		googleai.WithModel("gemini-test"),
		googleai.WithBaseURL(server.URL+"/"),
		googleai.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	spec, err := llm.DescribeTool(&tools.Descriptor{
		Name:        "md5",
		Description: "returns md5 of the text",
		InputSchema: schema.MustParse(`{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`),
	})
	require.NoError(t, err)

	reply, err := llm.SendTurn(context.Background(), llms.NewConversation("be brief", "hash hello"), []llms.ToolSpec{spec})
	require.NoError(t, err)

	assert.Contains(t, captured, "contents")
	assert.Contains(t, captured, "systemInstruction")
	require.Contains(t, captured, "tools")
	decls := captured["tools"].([]any)[0].(map[string]any)["functionDeclarations"].([]any)
	require.Len(t, decls, 1)
	assert.Equal(t, "md5", decls[0].(map[string]any)["name"])

	assert.Equal(t, []string{"hashing"}, reply.Text)
	assert.Equal(t, llms.FinishReasonToolUse, reply.FinishReason)
	assert.Equal(t, "STOP", reply.NativeFinishReason)
	assert.Equal(t, llms.Usage{InputTokens: 12, OutputTokens: 4}, reply.Usage)

	invs := llm.ExtractInvocations(reply)
	require.Len(t, invs, 1)
	assert.NotEmpty(t, invs[0].ID)
	assert.Equal(t, "md5", invs[0].Name)
	assert.Equal(t, `{"text":"hello"}`, invs[0].Input)
	assert.Equal(t, tools.Arguments{"text": "hello"}, invs[0].Arguments)
	assert.Equal(t, []byte("sig-from-call"), invs[0].Signature)

	// call IDs are stable across extractions
	assert.Equal(t, invs[0].ID, llm.ExtractInvocations(reply)[0].ID)

	// the signature is replayed with the call on the next turn
	conv := llms.NewConversation("be brief", "hash hello")
	conv.Append(
		llms.Message{Role: llms.RoleAssistant, Parts: []llms.Part{invs[0].ToolCall()}},
		llms.Message{Role: llms.RoleTool, Parts: []llms.Part{llms.Ok(invs[0].ID, "md5", "5d41402abc4b2a76b9719d911017c592")}},
	)
	_, err = llm.SendTurn(context.Background(), conv, []llms.ToolSpec{spec})
	require.NoError(t, err)

	contents := captured["contents"].([]any)
	require.Len(t, contents, 3)
	call := contents[1].(map[string]any)["parts"].([]any)[0].(map[string]any)
	assert.Equal(t, "c2lnLWZyb20tY2FsbA==", call["thoughtSignature"])
	assert.Equal(t, "md5", call["functionCall"].(map[string]any)["name"])
}

func TestSendTurn_Failure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"invalid request","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	llm, err := googleai.New(context.Background(),
		googleai.WithAPIKey("fake-key"),
		googleai.WithModel("gemini-test"),
		googleai.WithBaseURL(server.URL+"/"),
	)
	require.NoError(t, err)

	_, err = llm.SendTurn(context.Background(), llms.NewConversation("", "hi"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llms.ErrProviderRequest))
}
