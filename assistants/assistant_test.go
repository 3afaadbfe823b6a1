package assistants_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/mocks/mockassistants"
	"github.com/effective-security/mcpagent/mocks/mockllms"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/mcpagent/tools/md5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// textReply returns a reply without tool calls
func textReply(texts ...string) *llms.Reply {
	return &llms.Reply{
		Text:         texts,
		FinishReason: llms.FinishReasonStop,
		Usage:        llms.Usage{InputTokens: 10, OutputTokens: 2},
	}
}

// callsReply returns a reply with the invocations as Native value
func callsReply(invs ...llms.Invocation) *llms.Reply {
	return &llms.Reply{
		FinishReason: llms.FinishReasonToolUse,
		Usage:        llms.Usage{InputTokens: 20, OutputTokens: 5},
		Native:       invs,
	}
}

type turnCapture struct {
	system   []string
	messages []int
	specs    [][]string
}

// newAdapter returns the adapter replying with the replies in order
func newAdapter(ctrl *gomock.Controller, capture *turnCapture, replies ...*llms.Reply) *mockllms.MockAdapter {
	m := mockllms.NewMockAdapter(ctrl)
	m.EXPECT().ProviderType().Return(llms.ProviderOpenAI).AnyTimes()
	m.EXPECT().ModelName().Return("gpt-test").AnyTimes()
	m.EXPECT().DescribeTool(gomock.Any()).DoAndReturn(func(d *tools.Descriptor) (llms.ToolSpec, error) {
		return llms.ToolSpec{Name: d.Name, Native: d.Name}, nil
	}).AnyTimes()

	turn := 0
	m.EXPECT().SendTurn(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, conv *llms.Conversation, specs []llms.ToolSpec) (*llms.Reply, error) {
			if capture != nil {
				capture.system = append(capture.system, conv.System)
				capture.messages = append(capture.messages, len(conv.Messages))
				var names []string
				for _, s := range specs {
					names = append(names, s.Name)
				}
				capture.specs = append(capture.specs, names)
			}
			r := replies[turn]
			turn++
			return r, nil
		}).Times(len(replies))

	m.EXPECT().ExtractInvocations(gomock.Any()).DoAndReturn(func(reply *llms.Reply) []llms.Invocation {
		invs, _ := reply.Native.([]llms.Invocation)
		return invs
	}).AnyTimes()
	return m
}

func catalog(names ...string) []*tools.Descriptor {
	var list []*tools.Descriptor
	for _, name := range names {
		list = append(list, &tools.Descriptor{Name: name})
	}
	return list
}

func TestRun_NoTools(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	capture := &turnCapture{}
	adapter := newAdapter(ctrl, capture, textReply("The capital", "is Paris."))

	dispatcher := mockassistants.NewMockToolDispatcher(ctrl)
	dispatcher.EXPECT().Catalog().Return(catalog("md5", "fs--read")).Times(1)
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	a := assistants.New(adapter, dispatcher)
	res, err := a.Run(context.Background(), "capital of France?")
	require.NoError(t, err)

	assert.Equal(t, "The capital\nis Paris.", res.Answer)
	assert.Equal(t, 1, res.Turns)
	assert.Equal(t, 0, res.ToolCalls)
	assert.Equal(t, llms.FinishReasonStop, res.FinishReason)
	assert.Equal(t, llms.Usage{InputTokens: 10, OutputTokens: 2}, res.Usage)

	assert.Equal(t, []string{""}, capture.system)
	assert.Equal(t, []int{1}, capture.messages)
	assert.Equal(t, [][]string{{"md5", "fs--read"}}, capture.specs)

	conv := res.Conversation
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, llms.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "capital of France?", conv.Messages[0].Text())
	assert.Equal(t, llms.RoleAssistant, conv.Messages[1].Role)
	assert.Len(t, conv.Messages[1].Parts, 2)
}

func TestRun_ToolErrorsRecovered(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	capture := &turnCapture{}
	adapter := newAdapter(ctrl, capture,
		callsReply(
			llms.NewInvocation("c1", "md5", `{"text":"hello"}`),
			llms.NewInvocation("c2", "fs--read", `{"path":`),
			llms.NewInvocation("c3", "db--query", `{}`),
			llms.NewInvocation("c4", "fs--read", `{"path":"/etc/hosts"}`),
		),
		textReply("done"),
	)

	dispatcher := mockassistants.NewMockToolDispatcher(ctrl)
	dispatcher.EXPECT().Catalog().Return(catalog("md5", "fs--read")).Times(1)
	gomock.InOrder(
		dispatcher.EXPECT().Dispatch(gomock.Any(), "md5", tools.Arguments{"text": "hello"}).
			Return("5d41402abc4b2a76b9719d911017c592", nil),
		dispatcher.EXPECT().Dispatch(gomock.Any(), "db--query", tools.Arguments{}).
			Return("", errors.Mark(errors.New(`tool "db--query" not found`), tools.ErrToolNotFound)),
		dispatcher.EXPECT().Dispatch(gomock.Any(), "fs--read", tools.Arguments{"path": "/etc/hosts"}).
			Return("", errors.Mark(errors.New("permission denied"), tools.ErrToolExecution)),
	)

	a := assistants.New(adapter, dispatcher)
	res, err := a.Run(context.Background(), "hash hello and read hosts")
	require.NoError(t, err)

	assert.Equal(t, "done", res.Answer)
	assert.Equal(t, 2, res.Turns)
	assert.Equal(t, 4, res.ToolCalls)
	assert.Equal(t, llms.Usage{InputTokens: 30, OutputTokens: 7}, res.Usage)
	// user + assistant calls + 4 results are sent on the second turn
	assert.Equal(t, []int{1, 6}, capture.messages)

	msgs := res.Conversation.Messages
	require.Len(t, msgs, 7)

	calls := msgs[1].ToolCalls()
	require.Len(t, calls, 4)
	assert.Equal(t, `{"path":`, calls[1].Input)

	var results []llms.ToolResultPart
	for _, m := range msgs[2:6] {
		assert.Equal(t, llms.RoleTool, m.Role)
		require.Len(t, m.ToolResults(), 1)
		results = append(results, m.ToolResults()[0])
	}
	assert.Equal(t, llms.Ok("c1", "md5", "5d41402abc4b2a76b9719d911017c592"), results[0])

	assert.Equal(t, "c2", results[1].CallID)
	assert.True(t, results[1].IsError)
	assert.Contains(t, results[1].Content, "failed to parse arguments")

	assert.Equal(t, "c3", results[2].CallID)
	assert.True(t, results[2].IsError)
	assert.Equal(t, `tool "db--query" not found. Available tools: md5, fs--read`, results[2].Content)

	assert.Equal(t, llms.Error("c4", "fs--read", "permission denied"), results[3])

	assert.Equal(t, "done", msgs[6].Text())
}

func TestRun_MaxTurns(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	loop := callsReply(llms.NewInvocation("c1", "md5", `{"text":"again"}`))
	adapter := newAdapter(ctrl, nil, loop, loop)

	dispatcher := mockassistants.NewMockToolDispatcher(ctrl)
	dispatcher.EXPECT().Catalog().Return(catalog("md5")).Times(1)
	dispatcher.EXPECT().Dispatch(gomock.Any(), "md5", gomock.Any()).Return("digest", nil).Times(2)

	a := assistants.New(adapter, dispatcher, assistants.WithMaxTurns(2))
	res, err := a.Run(context.Background(), "loop")
	require.Error(t, err)
	assert.True(t, errors.Is(err, assistants.ErrMaxTurns))
	assert.EqualError(t, err, "2 turns: maximum number of turns exceeded")

	require.NotNil(t, res)
	assert.Equal(t, 2, res.Turns)
	assert.Len(t, res.Conversation.Messages, 5)
}

func TestRun_ProviderFailure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	adapter := mockllms.NewMockAdapter(ctrl)
	adapter.EXPECT().ProviderType().Return(llms.ProviderAnthropic).AnyTimes()
	adapter.EXPECT().ModelName().Return("claude-test").AnyTimes()
	adapter.EXPECT().SendTurn(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset")).Times(1)
	adapter.EXPECT().ExtractInvocations(gomock.Any()).Times(0)

	dispatcher := mockassistants.NewMockToolDispatcher(ctrl)
	dispatcher.EXPECT().Catalog().Return(nil).Times(1)

	callback := mockassistants.NewMockCallback(ctrl)
	callback.EXPECT().OnRunStart(gomock.Any(), "hi").Times(1)
	callback.EXPECT().OnLLMCallStart(gomock.Any(), 1, gomock.Any()).Times(1)
	callback.EXPECT().OnRunError(gomock.Any(), gomock.Any()).Times(1)

	a := assistants.New(adapter, dispatcher, assistants.WithCallback(callback))
	res, err := a.Run(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llms.ErrProviderRequest))
	assert.EqualError(t, err, "turn 1: connection reset")
	require.NotNil(t, res)
	assert.Len(t, res.Conversation.Messages, 1)
}

func TestRun_Callback(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	inv := llms.NewInvocation("c1", "md5", `{"text":"hello"}`)
	bad := llms.NewInvocation("c2", "md5", `[1]`)
	adapter := newAdapter(ctrl, nil, callsReply(inv, bad), textReply("hashed"))

	dispatcher := mockassistants.NewMockToolDispatcher(ctrl)
	dispatcher.EXPECT().Catalog().Return(catalog("md5")).Times(1)
	dispatcher.EXPECT().Dispatch(gomock.Any(), "md5", gomock.Any()).Return("digest", nil).Times(1)

	callback := mockassistants.NewMockCallback(ctrl)
	callback.EXPECT().OnRunStart(gomock.Any(), "hash").Times(1)
	callback.EXPECT().OnLLMCallStart(gomock.Any(), gomock.Any(), gomock.Any()).Times(2)
	callback.EXPECT().OnLLMCallEnd(gomock.Any(), gomock.Any(), gomock.Any()).Times(2)
	callback.EXPECT().OnModelText(gomock.Any(), "hashed").Times(1)
	callback.EXPECT().OnToolStart(gomock.Any(), inv).Times(1)
	callback.EXPECT().OnToolEnd(gomock.Any(), inv, "digest").Times(1)
	callback.EXPECT().OnToolError(gomock.Any(), bad, gomock.Any()).Times(1)
	callback.EXPECT().OnRunEnd(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, res *assistants.Result) {
			assert.Equal(t, "hashed", res.Answer)
		}).Times(1)

	a := assistants.New(adapter, dispatcher, assistants.WithCallback(callback))
	_, err := a.Run(context.Background(), "hash")
	require.NoError(t, err)
}

func TestRun_SystemPrompt(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	capture := &turnCapture{}
	adapter := newAdapter(ctrl, capture, textReply("ok"))

	dispatcher := mockassistants.NewMockToolDispatcher(ctrl)
	dispatcher.EXPECT().Catalog().Return(catalog("md5", "fs--read")).Times(1)

	a := assistants.New(adapter, dispatcher,
		assistants.WithSystemPrompt("\nYou are {{ .name }} on {{ .model }}.\nTools: {{ join \", \" .tools }}.\n"),
		assistants.WithPromptInput(map[string]any{"name": "agent"}),
	)
	_, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"You are agent on gpt-test.\nTools: md5, fs--read."}, capture.system)
}

func TestRun_InvalidSystemPrompt(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	adapter := newAdapter(ctrl, nil)
	dispatcher := mockassistants.NewMockToolDispatcher(ctrl)
	dispatcher.EXPECT().Catalog().Return(nil).Times(1)

	a := assistants.New(adapter, dispatcher,
		assistants.WithSystemPrompt("{{ .broken"),
		assistants.WithPromptInput(map[string]any{"name": "agent"}),
	)
	res, err := a.Run(context.Background(), "hi")
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, tools.ErrConfiguration))
}

func TestRun_LiteralSystemPrompt(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		name   string
		prompt string
		exp    string
	}{
		{name: "plain", prompt: " Be brief. {not a template}\n", exp: "Be brief. {not a template}"},
		{name: "unparsable", prompt: "Reply with {{ and }} around names.", exp: "Reply with {{ and }} around names."},
		{name: "unclosed", prompt: "Use {{name for placeholders.", exp: "Use {{name for placeholders."},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			capture := &turnCapture{}
			adapter := newAdapter(ctrl, capture, textReply("ok"))
			dispatcher := mockassistants.NewMockToolDispatcher(ctrl)
			dispatcher.EXPECT().Catalog().Return(nil).Times(1)

			a := assistants.New(adapter, dispatcher, assistants.WithSystemPrompt(tc.prompt))
			_, err := a.Run(context.Background(), "hi")
			require.NoError(t, err)
			assert.Equal(t, []string{tc.exp}, capture.system)
		})
	}
}

func TestRun_Registry(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	registry := tools.NewRegistry()
	require.NoError(t, registry.RegisterLocal(md5.New()))
	require.NoError(t, registry.RegisterLocal(tools.NewFunc("fail", "always fails", nil,
		func(context.Context, tools.Arguments) (string, error) {
			return "", errors.New("kaboom")
		})))

	adapter := newAdapter(ctrl, nil,
		callsReply(
			llms.NewInvocation("c1", "md5", `{"text":"hello"}`),
			llms.NewInvocation("c2", "fail", ``),
			llms.NewInvocation("c3", "fs--read", `{}`),
		),
		textReply("5d41402abc4b2a76b9719d911017c592"),
	)

	res, err := assistants.New(adapter, registry).Run(context.Background(), "hash hello")
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", res.Answer)

	msgs := res.Conversation.Messages
	require.Len(t, msgs, 6)
	assert.Equal(t, llms.Ok("c1", "md5", "5d41402abc4b2a76b9719d911017c592"), msgs[2].ToolResults()[0])
	assert.Equal(t, llms.Error("c2", "fail", `tool "fail": kaboom`), msgs[3].ToolResults()[0])
	failed := msgs[4].ToolResults()[0]
	assert.True(t, failed.IsError)
	assert.Contains(t, failed.Content, "Available tools: md5, fail")
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := assistants.NewConfig(
		assistants.WithMaxTurns(3),
		assistants.WithMaxTurns(-1),
		assistants.WithSystemPrompt("be brief"),
	)
	assert.Equal(t, 3, cfg.MaxTurns)
	assert.Equal(t, "be brief", cfg.SystemPrompt)
	assert.Nil(t, cfg.Callback)
}
