package client

import (
	"embed"
	"strings"
)

// embeddedPrompts holds the built-in prompt templates so packaged executables
// can load them without needing access to the source tree.
//
//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// SystemPrompt returns the built-in reviewer persona.
func SystemPrompt() string {
	b, err := embeddedPrompts.ReadFile("prompts/review_system.txt")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
