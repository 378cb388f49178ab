package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	LLMEventTool  = "event:llm:tool"
	LLMEventStep  = "event:llm:step"
	LLMEventDone  = "event:llm:done"
	GitEventDiff  = "event:git:diff"
	FileEventSave = "event:file:save"
)

// ToolEvent is a single lifecycle record produced while a review runs.
type ToolEvent struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	SessionKey string            `json:"sessionKey,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const sessionContextKey contextKey = "codereview/events/session"

// WithSession returns a derived context annotated with the given session key
// so emitted events can be correlated with a review run.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateToolEvent(eventType EventType, message string) ToolEvent {
	return ToolEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// With returns a copy of evt carrying an extra metadata entry.
func (evt ToolEvent) With(key, value string) ToolEvent {
	md := make(map[string]string, len(evt.Metadata)+1)
	for k, v := range evt.Metadata {
		md[k] = v
	}
	md[key] = value
	evt.Metadata = md
	return evt
}

func NewInfo(message string) ToolEvent {
	return CreateToolEvent(EventInfo, message)
}

func NewWarn(message string) ToolEvent {
	return CreateToolEvent(EventWarn, message)
}

func NewError(message string) ToolEvent {
	return CreateToolEvent(EventError, message)
}

func NewSuccess(message string) ToolEvent {
	return CreateToolEvent(EventSuccess, message)
}
