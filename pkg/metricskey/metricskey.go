package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsLLMTurns is base for counter metric for total turns sent to LLM
	StatsLLMTurns = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_turns",
		Help:         "stats_llm_turns provides total turns sent to LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsLLMFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_failed",
		Help:         "stats_llm_failed provides total failed requests to LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsLLMInputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_input_tokens",
		Help:         "stats_llm_input_tokens provides total input tokens sent to LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsLLMOutputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_output_tokens",
		Help:         "stats_llm_output_tokens provides total output tokens received from LLM",
		RequiredTags: []string{"provider", "model"},
	}

	StatsAssistantRunsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_assistant_runs_succeeded",
		Help:         "stats_assistant_runs_succeeded provides total assistant runs succeeded",
		RequiredTags: []string{"provider"},
	}

	StatsAssistantRunsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_assistant_runs_failed",
		Help:         "stats_assistant_runs_failed provides total assistant runs failed",
		RequiredTags: []string{"provider"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsToolArgumentsInvalid = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_arguments_invalid",
		Help:         "stats_tool_arguments_invalid provides total tool calls with arguments failed to parse",
		RequiredTags: []string{"tool"},
	}

	StatsToolServerFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_server_failed",
		Help:         "stats_tool_server_failed provides total tool servers failed to connect",
		RequiredTags: []string{"server"},
	}
)

// Perf
var (
	PerfAssistantRun = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_assistant_run",
		Help:         "perf_assistant_run provides duration of assistant run",
		RequiredTags: []string{"provider"},
	}

	PerfLLMTurn = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_llm_turn",
		Help:         "perf_llm_turn provides duration of LLM request",
		RequiredTags: []string{"provider", "model"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfToolServerConnect = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_server_connect",
		Help:         "perf_tool_server_connect provides duration of tool server connect and listing",
		RequiredTags: []string{"server"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAssistantRun,
	&PerfLLMTurn,
	&PerfToolCall,
	&PerfToolServerConnect,
	&StatsAssistantRunsFailed,
	&StatsAssistantRunsSucceeded,
	&StatsLLMFailed,
	&StatsLLMInputTokens,
	&StatsLLMOutputTokens,
	&StatsLLMTurns,
	&StatsToolArgumentsInvalid,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsToolServerFailed,
}
