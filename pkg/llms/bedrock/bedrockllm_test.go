package bedrock_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llms/bedrock"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLLM(t *testing.T, url string) *bedrock.LLM {
	llm, err := bedrock.New(context.Background(),
		bedrock.WithRegion("us-east-1"),
		bedrock.WithCredentials("AKIDEXAMPLE", "secret", ""),
		bedrock.WithBaseURL(url),
		bedrock.WithMaxRetries(1),
		bedrock.WithModel("anthropic.claude-3-haiku-20240307-v1:0"),
	)
	require.NoError(t, err)
	return llm
}

func TestFinishReason(t *testing.T) {
	t.Parallel()

	assert.Equal(t, llms.FinishReasonStop, bedrock.FinishReason("end_turn"))
	assert.Equal(t, llms.FinishReasonStop, bedrock.FinishReason("stop_sequence"))
	assert.Equal(t, llms.FinishReasonToolUse, bedrock.FinishReason("tool_use"))
	assert.Equal(t, llms.FinishReasonLength, bedrock.FinishReason("max_tokens"))
	assert.Equal(t, llms.FinishReasonFiltered, bedrock.FinishReason("refusal"))
	assert.Equal(t, llms.FinishReasonOther, bedrock.FinishReason("pause_turn"))
}

func TestToMessages(t *testing.T) {
	t.Parallel()

	conv := llms.NewConversation("", "hash hello")
	conv.Append(
		llms.Message{Role: llms.RoleAssistant, Parts: []llms.Part{
			llms.ToolCallPart{ID: "t1", Name: "md5", Input: `{"text":"hello"}`},
			llms.ToolCallPart{ID: "t2", Name: "fs--read", Input: ``},
		}},
		llms.Message{Role: llms.RoleTool, Parts: []llms.Part{llms.Ok("t1", "md5", "5d41402abc4b2a76b9719d911017c592")}},
		llms.Message{Role: llms.RoleTool, Parts: []llms.Part{llms.Error("t2", "fs--read", "no such file")}},
	)

	msgs, err := bedrock.ToMessages(conv.Messages)
	require.NoError(t, err)

	js, err := json.Marshal(msgs)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"role":"user","content":[{"type":"text","text":"hash hello"}]},
		{"role":"assistant","content":[
			{"type":"tool_use","id":"t1","name":"md5","input":{"text":"hello"}},
			{"type":"tool_use","id":"t2","name":"fs--read","input":{}}
		]},
		{"role":"user","content":[
			{"type":"tool_result","tool_use_id":"t1","content":"5d41402abc4b2a76b9719d911017c592"},
			{"type":"tool_result","tool_use_id":"t2","content":"no such file","is_error":true}
		]}
	]`, string(js))
}

func TestSendTurn(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/model/anthropic.claude-3-haiku"), r.URL.Path)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/invoke"), r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "AKIDEXAMPLE")

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"content": [
				{"type": "text", "text": "hashing"},
				{"type": "tool_use", "id": "toolu_1", "name": "md5", "input": {"text": "hello"}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 20, "output_tokens": 7}
		}`))
	}))
	defer server.Close()

	llm := newLLM(t, server.URL)
	assert.Equal(t, llms.ProviderBedrock, llm.ProviderType())
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", llm.ModelName())

	spec, err := llm.DescribeTool(&tools.Descriptor{
		Name:        "md5",
		Description: "returns md5 of the text",
		InputSchema: schema.MustParse(`{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`),
	})
	require.NoError(t, err)

	reply, err := llm.SendTurn(context.Background(), llms.NewConversation("be brief", "hash hello"), []llms.ToolSpec{spec})
	require.NoError(t, err)

	assert.Equal(t, "bedrock-2023-05-31", captured["anthropic_version"])
	assert.Equal(t, "be brief", captured["system"])
	assert.EqualValues(t, llms.DefaultMaxTokens, captured["max_tokens"])
	require.Len(t, captured["tools"], 1)
	tool := captured["tools"].([]any)[0].(map[string]any)
	assert.Equal(t, "md5", tool["name"])
	assert.Equal(t, []any{"text"}, tool["input_schema"].(map[string]any)["required"])

	assert.Equal(t, []string{"hashing"}, reply.Text)
	assert.Equal(t, llms.FinishReasonToolUse, reply.FinishReason)
	assert.Equal(t, llms.Usage{InputTokens: 20, OutputTokens: 7}, reply.Usage)

	invs := llm.ExtractInvocations(reply)
	require.Len(t, invs, 1)
	assert.Equal(t, "toolu_1", invs[0].ID)
	assert.Equal(t, tools.Arguments{"text": "hello"}, invs[0].Arguments)
	assert.NoError(t, invs[0].Err)
}

func TestSendTurn_Failure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Amzn-Errortype", "ValidationException")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"malformed input request"}`))
	}))
	defer server.Close()

	llm := newLLM(t, server.URL)
	_, err := llm.SendTurn(context.Background(), llms.NewConversation("", "hi"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llms.ErrProviderRequest))
}
