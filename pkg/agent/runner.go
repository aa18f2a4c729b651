// Package agent implements the tool-augmented reasoning loop: the model
// either answers or asks for a tool, tool output is appended to the
// transcript, and the cycle repeats until a final answer comes back.
package agent

import (
	"context"
	"fmt"

	"github.com/gecBurton/dosac/pkg/llm"

	"github.com/google/uuid"
)

// SystemPrompt sets the assistant persona for every chat.
const SystemPrompt = `you are Malcolm Tucker from In The Thick of It. You will be asked idiotic questions
from disgruntled civil servants. reply in character using Markdown`

// defaultMaxSteps bounds the reasoning/tool cycle so a confused model
// cannot loop forever.
const defaultMaxSteps = 10

// Result is the terminal state of a run: the final answer plus the union
// of all artifacts produced by tool executions, in execution order.
type Result struct {
	Answer    string
	Artifacts []Artifact
}

// AssistantSink receives every model reply as soon as it arrives, before
// any tool runs. Callers use it to persist the transcript incrementally so
// completed steps survive a later failure. A sink error aborts the run.
type AssistantSink func(msg llm.Message) error

type Runner struct {
	provider     llm.Provider
	tools        *Toolset
	systemPrompt string
	maxSteps     int
}

func NewRunner(provider llm.Provider, tools *Toolset, systemPrompt string) *Runner {
	if systemPrompt == "" {
		systemPrompt = SystemPrompt
	}
	return &Runner{
		provider:     provider,
		tools:        tools,
		systemPrompt: systemPrompt,
		maxSteps:     defaultMaxSteps,
	}
}

// Run executes the loop for one request. The caller's identity is carried
// in loop state and handed to every tool invocation; tools never infer it
// from message content. Events are emitted in the exact order produced.
//
// Tool failures are fed back to the model as tool-result text so it can
// recover. A failure of the model call itself aborts the whole run.
func (r *Runner) Run(ctx context.Context, userID uuid.UUID, history []llm.Message, emit Emitter, sink AssistantSink) (*Result, error) {
	if emit == nil {
		emit = func(Event) {}
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: r.systemPrompt})
	messages = append(messages, history...)

	var artifacts []Artifact

	for step := 0; step < r.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		emit(Event{Event: EventReasoning})

		reply, err := r.provider.Chat(ctx, messages, r.tools.Definitions())
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		messages = append(messages, *reply)

		if sink != nil {
			if err := sink(*reply); err != nil {
				return nil, fmt.Errorf("recording reply: %w", err)
			}
		}

		if len(reply.ToolCalls) == 0 {
			emit(Event{Event: EventAnswer, Data: AnswerData{Content: reply.Content}})
			return &Result{Answer: reply.Content, Artifacts: artifacts}, nil
		}

		// Tool calls run one after another; the transcript order must be
		// deterministic per step.
		for _, call := range reply.ToolCalls {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			emit(Event{Event: EventToolInvoked, Data: ToolInvokedData{
				Tool:      call.Name,
				Arguments: string(call.Arguments),
			}})

			content, produced, failed := r.invokeTool(ctx, userID, call)
			if !failed {
				artifacts = append(artifacts, produced...)
			}

			emit(Event{Event: EventToolResult, Data: ToolResultData{
				Tool:      call.Name,
				Content:   content,
				Artifacts: produced,
				Failed:    failed,
			}})

			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	return nil, fmt.Errorf("no final answer after %d steps", r.maxSteps)
}

func (r *Runner) invokeTool(ctx context.Context, userID uuid.UUID, call llm.ToolCall) (content string, artifacts []Artifact, failed bool) {
	tool, err := r.tools.Get(call.Name)
	if err != nil {
		return err.Error(), nil, true
	}

	content, artifacts, err = tool.Invoke(ctx, userID, call.Arguments)
	if err != nil {
		return fmt.Sprintf("tool %s failed: %v", call.Name, err), nil, true
	}
	return content, artifacts, false
}
