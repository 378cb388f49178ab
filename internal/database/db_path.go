package database

import (
	"os"
	"path/filepath"

	"codereview/internal/logger"
)

const appDirName = "codereview"

// GetDefaultDBPath returns the history database path in the user's config
// directory, falling back to the working directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		logger.WithComponent("database").WithError(err).Warn("failed to get user config dir, using fallback")
		return "codereview.db"
	}
	return filepath.Join(configDir, appDirName, "history.db")
}
