package tools

import (
	"embed"
	"strings"
)

// toolDescFS holds one "<tool name>.txt" description per registered tool.
//
//go:embed *.txt
var toolDescFS embed.FS

// ToolDescription returns the embedded description for toolKey, or "" when
// none exists.
func ToolDescription(toolKey string) string {
	key := strings.TrimSuffix(strings.TrimSpace(toolKey), ".txt")
	if key == "" {
		return ""
	}
	b, err := toolDescFS.ReadFile(key + ".txt")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
