package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"codereview/internal/events"
	"codereview/internal/llm/tools"
	"codereview/internal/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

// DefaultMaxSteps caps the number of model turns in one review.
const DefaultMaxSteps = 10

// ReviewAgent drives one conversation in which the model may call the
// registered tools. Turns are strictly sequential.
type ReviewAgent struct {
	model    model.ToolCallingChatModel
	registry *tools.Registry
	maxSteps int
	system   string
	out      io.Writer
	log      *logrus.Entry
}

type AgentOption func(*ReviewAgent)

func WithMaxSteps(n int) AgentOption {
	return func(a *ReviewAgent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// WithOutput sets where streamed model text is written. Defaults to stdout.
func WithOutput(w io.Writer) AgentOption {
	return func(a *ReviewAgent) {
		if w != nil {
			a.out = w
		}
	}
}

func WithSystemPrompt(prompt string) AgentOption {
	return func(a *ReviewAgent) {
		a.system = prompt
	}
}

func NewReviewAgent(m model.ToolCallingChatModel, registry *tools.Registry, opts ...AgentOption) (*ReviewAgent, error) {
	if m == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	a := &ReviewAgent{
		model:    m,
		registry: registry,
		maxSteps: DefaultMaxSteps,
		system:   SystemPrompt(),
		out:      os.Stdout,
		log:      logger.WithComponent("agent"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// RunReport summarises a finished conversation.
type RunReport struct {
	Steps          int
	ToolCalls      int
	FailedTools    int
	FinalContent   string
	StoppedAtLimit bool
}

// Run sends prompt to the model and loops until it answers without calling a
// tool or the step cap is reached. One step is one model call plus the tool
// calls it requests. Text is written to the output as it streams.
func (a *ReviewAgent) Run(ctx context.Context, prompt string) (*RunReport, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	infos, err := a.registry.Infos(ctx)
	if err != nil {
		return nil, err
	}
	bound, err := a.model.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("bind tools: %w", err)
	}

	messages := make([]*schema.Message, 0, 8)
	if strings.TrimSpace(a.system) != "" {
		messages = append(messages, schema.SystemMessage(a.system))
	}
	messages = append(messages, schema.UserMessage(prompt))

	report := &RunReport{}
	for report.Steps < a.maxSteps {
		report.Steps++
		events.Emit(ctx, events.LLMEventStep, events.NewInfo(fmt.Sprintf("step %d/%d", report.Steps, a.maxSteps)))

		reply, err := a.streamTurn(ctx, bound, messages)
		if err != nil {
			return report, fmt.Errorf("step %d: %w", report.Steps, err)
		}
		messages = append(messages, reply)
		report.FinalContent = reply.Content

		if len(reply.ToolCalls) == 0 {
			events.Emit(ctx, events.LLMEventDone, events.NewSuccess(fmt.Sprintf("finished after %d step(s)", report.Steps)))
			return report, nil
		}

		for _, call := range reply.ToolCalls {
			report.ToolCalls++
			a.log.WithFields(logrus.Fields{"tool": call.Function.Name, "step": report.Steps}).Debug("dispatching tool call")
			res := a.registry.Invoke(ctx, call.Function.Name, call.Function.Arguments)
			if res.Err != nil {
				report.FailedTools++
			}
			messages = append(messages, schema.ToolMessage(res.Content, call.ID, schema.WithToolName(call.Function.Name)))
		}
	}

	report.StoppedAtLimit = true
	a.log.WithField("steps", report.Steps).Warn("step limit reached before the model produced a final answer")
	events.Emit(ctx, events.LLMEventDone, events.NewWarn(fmt.Sprintf("stopped at step limit %d", a.maxSteps)))
	return report, nil
}

// streamTurn runs one model call, writing content chunks to the output as
// they arrive, and returns the assembled assistant message.
func (a *ReviewAgent) streamTurn(ctx context.Context, m model.BaseChatModel, messages []*schema.Message) (*schema.Message, error) {
	reader, err := m.Stream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("start stream: %w", err)
	}
	if reader == nil {
		return nil, fmt.Errorf("model returned nil stream reader")
	}
	defer reader.Close()

	var chunks []*schema.Message
	for {
		msg, recvErr := reader.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("stream recv: %w", recvErr)
		}
		if msg == nil {
			continue
		}
		if msg.Content != "" {
			if _, err := io.WriteString(a.out, msg.Content); err != nil {
				return nil, fmt.Errorf("write output: %w", err)
			}
		}
		chunks = append(chunks, msg)
	}

	if len(chunks) == 0 {
		return schema.AssistantMessage("", nil), nil
	}
	reply, err := schema.ConcatMessages(chunks)
	if err != nil {
		return nil, fmt.Errorf("assemble reply: %w", err)
	}
	return reply, nil
}
