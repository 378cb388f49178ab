package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"codereview/internal/events"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

const (
	FileChangesToolName   = "get_file_changes_in_directory_tool"
	CommitMessageToolName = "generate_commit_message_tool"
	MarkdownFileToolName  = "generate_markdown_file_tool"
)

// Validator is implemented by every tool input. Validate runs before the tool body.
type Validator interface {
	Validate() error
}

// Registry maps tool names to schema-described, validated handlers.
type Registry struct {
	order  []string
	tools  map[string]tool.InvokableTool
	inputs map[string]reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{
		tools:  make(map[string]tool.InvokableTool),
		inputs: make(map[string]reflect.Type),
	}
}

// Register adds fn under name. The JSON schema advertised to the model is
// inferred from I; the description is read from the embedded "<name>.txt".
func Register[I Validator, O any](r *Registry, name string, fn func(context.Context, I) (O, error)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	desc := ToolDescription(name)
	if desc == "" {
		desc = strings.ReplaceAll(strings.TrimSuffix(name, "_tool"), "_", " ")
	}

	validated := func(ctx context.Context, in I) (O, error) {
		var zero O
		if err := in.Validate(); err != nil {
			return zero, err
		}
		return fn(ctx, in)
	}
	t, err := utils.InferTool(name, desc, validated)
	if err != nil {
		return fmt.Errorf("infer tool %s: %w", name, err)
	}
	r.tools[name] = t
	r.inputs[name] = reflect.TypeOf((*I)(nil)).Elem()
	r.order = append(r.order, name)
	return nil
}

// NewReviewRegistry registers the three review tools.
func NewReviewRegistry(collector *DiffCollector) (*Registry, error) {
	if collector == nil {
		collector = NewDiffCollector(nil)
	}
	r := NewRegistry()
	if err := Register(r, FileChangesToolName, collector.GetFileChanges); err != nil {
		return nil, err
	}
	if err := Register(r, CommitMessageToolName, GenerateCommitMessage); err != nil {
		return nil, err
	}
	if err := Register(r, MarkdownFileToolName, GenerateMarkdownFile); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Names() []string {
	return append([]string{}, r.order...)
}

// Infos returns the tool schemas in registration order.
func (r *Registry) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		info, err := r.tools[name].Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool %s info: %w", name, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ToolResult is what a dispatched call hands back to the model.
type ToolResult struct {
	Name    string
	Content string
	Err     error
}

// Invoke dispatches one call. Arguments missing a required field are rejected
// before the tool runs. Every failure, including unknown tools and malformed
// arguments, is encoded into Content so the model can react to it.
func (r *Registry) Invoke(ctx context.Context, name, argumentsJSON string) ToolResult {
	res := ToolResult{Name: name}
	t, ok := r.tools[name]
	if !ok {
		res.Err = fmt.Errorf("unknown tool %q", name)
	} else {
		if strings.TrimSpace(argumentsJSON) == "" {
			argumentsJSON = "{}"
		}
		events.Emit(ctx, events.LLMEventTool, events.NewInfo(fmt.Sprintf("%s: starting", name)))
		if res.Err = checkRequired([]byte(argumentsJSON), r.inputs[name]); res.Err == nil {
			res.Content, res.Err = t.InvokableRun(ctx, argumentsJSON)
		}
	}

	if res.Err != nil {
		evt := events.NewError(fmt.Sprintf("%s: %v", name, res.Err))
		var verr *ValidationError
		if errors.As(res.Err, &verr) {
			evt = events.NewWarn(fmt.Sprintf("%s: %v", name, verr))
		}
		events.Emit(ctx, events.LLMEventTool, evt.With("tool", name))
		res.Content = failureContent(res.Err)
		return res
	}

	events.Emit(ctx, events.LLMEventTool, events.NewSuccess(fmt.Sprintf("%s: done", name)).With("tool", name))
	return res
}

func failureContent(err error) string {
	payload := struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{Error: err.Error()}
	b, mErr := json.Marshal(payload)
	if mErr != nil {
		return fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())
	}
	return string(b)
}
