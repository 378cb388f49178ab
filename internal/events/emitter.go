package events

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Emit publishes evt under the given channel name. It is a no-op until a
// sink is installed with EnableLogEmitter or SetCustomEmitter.
var Emit = func(ctx context.Context, name string, evt ToolEvent) {}

// EnableLogEmitter routes every event to the logrus logger.
func EnableLogEmitter(log *logrus.Logger) {
	SetCustomEmitter(func(ctx context.Context, name string, evt ToolEvent) {
		logEvent(log, name, evt)
	})
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt ToolEvent)) {
	if f == nil {
		Emit = func(context.Context, string, ToolEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt ToolEvent) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		f(ctx, name, evt)
	}
}

func logEvent(log *logrus.Logger, name string, evt ToolEvent) {
	if log == nil {
		return
	}
	fields := logrus.Fields{
		"event":    name,
		"event_id": evt.ID,
	}
	if evt.SessionKey != "" {
		fields["session"] = evt.SessionKey
	}
	for k, v := range evt.Metadata {
		fields[k] = v
	}
	entry := log.WithFields(fields).WithTime(evt.Timestamp)

	switch evt.Type {
	case EventError:
		entry.Error(evt.Message)
	case EventWarn:
		entry.Warn(evt.Message)
	case EventSuccess:
		entry.Info(evt.Message)
	default:
		entry.Debug(evt.Message)
	}
}
