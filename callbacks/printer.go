package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llmutils"
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// DefaultMaxOutput is the number of runes of the tool output
// printed in the default mode.
const DefaultMaxOutput = 512

// Printer is a callback handler that prints the operator console to the Writer.
// Styles are rendered only when the Writer is a terminal.
type Printer struct {
	Out  io.Writer
	Mode Mode

	label  lipgloss.Style
	errors lipgloss.Style
	muted  lipgloss.Style

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		Out:    out,
		Mode:   mode,
		label:  r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		errors: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted:  r.NewStyle().Faint(true),
	}
}

func (l *Printer) OnRunStart(ctx context.Context, instruction string) {
	if l.Mode != ModeVerbose {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "%s %s\n", l.label.Render("Prompt:"), instruction)
}

func (l *Printer) OnRunEnd(ctx context.Context, res *assistants.Result) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.Mode == ModeVerbose {
		fmt.Fprintln(l.Out, l.muted.Render(fmt.Sprintf("turns: %d, tool calls: %d, tokens: %d/%d",
			res.Turns, res.ToolCalls, res.Usage.InputTokens, res.Usage.OutputTokens)))
	}
	fmt.Fprintln(l.Out, l.label.Render("Prompt finished."))
}

func (l *Printer) OnRunError(ctx context.Context, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "%s %s\n", l.errors.Render("Prompt failed:"), err.Error())
}

func (l *Printer) OnModelText(ctx context.Context, text string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprint(l.Out, llmutils.EnsureEndsWithNewline(text))
}

func (l *Printer) OnLLMCallStart(ctx context.Context, turn int, conv *llms.Conversation) {
	if l.Mode != ModeVerbose {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintln(l.Out, l.muted.Render(fmt.Sprintf("LLM Call: turn %d, %d messages", turn, len(conv.Messages))))
}

func (l *Printer) OnLLMCallEnd(ctx context.Context, turn int, reply *llms.Reply) {
	if l.Mode != ModeVerbose {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintln(l.Out, l.muted.Render(fmt.Sprintf("LLM Call End: turn %d, %s", turn, reply.FinishReason)))
}

func (l *Printer) OnToolStart(ctx context.Context, inv llms.Invocation) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "%s %s %s\n", l.label.Render("Tool Use:"), inv.Name, inv.Arguments.String())
}

func (l *Printer) OnToolEnd(ctx context.Context, inv llms.Invocation, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.Mode != ModeVerbose {
		output = llmutils.Truncate(output, DefaultMaxOutput)
	}
	fmt.Fprintf(l.Out, "%s %s\n", l.label.Render("Tool Result:"), output)
}

func (l *Printer) OnToolError(ctx context.Context, inv llms.Invocation, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "%s %s: %s\n", l.errors.Render("Tool Error:"), inv.Name, err.Error())
}
