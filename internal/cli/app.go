package cli

import (
	"context"
	"fmt"
	"io"

	"codereview/internal/config"
	"codereview/internal/database"
	"codereview/internal/llm/client"
	"codereview/internal/logger"
	"codereview/internal/services"

	"github.com/99designs/keyring"
	"github.com/cloudwego/eino/components/model"
	"gorm.io/gorm"
)

// deps are the process-level collaborators a command needs. Tests replace the
// model factory and the keyring with in-memory versions.
type deps struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	newChatModel func(ctx context.Context, provider, modelName, key string) (model.ToolCallingChatModel, error)
	openKeyring  func() (keyring.Keyring, error)
}

func defaultDeps(stdin io.Reader, stdout, stderr io.Writer) deps {
	return deps{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		newChatModel: func(ctx context.Context, provider, modelName, key string) (model.ToolCallingChatModel, error) {
			c, err := client.NewClient(ctx, provider, modelName, key)
			if err != nil {
				return nil, err
			}
			return c.ChatModel, nil
		},
		openKeyring: services.OpenKeyring,
	}
}

type app struct {
	deps

	configPath string
	logLevel   string
	logFormat  string
	envFile    string

	cfg *config.Config
	db  *gorm.DB
}

// historyMode says how a command depends on the run history database.
type historyMode int

const (
	// historyOptional logs an open failure and continues without Runs.
	historyOptional historyMode = iota
	historyRequired
)

// services wires the service container. History is opened when enabled; a
// keyring that cannot be opened leaves Keys nil.
func (a *app) services(mode historyMode) (*services.Services, error) {
	log := logger.WithComponent("cli")

	var keys *services.KeyringService
	if ring, err := a.openKeyring(); err != nil {
		log.WithError(err).Debug("keyring unavailable")
	} else {
		keys = services.NewKeyringService(ring)
	}

	var db *gorm.DB
	if a.cfg.History.IsEnabled() {
		var err error
		db, err = a.openHistory()
		switch {
		case err != nil && mode == historyRequired:
			return nil, err
		case err != nil:
			logger.WithComponent("history").WithError(err).Warn("run history unavailable, continuing without it")
			db = nil
		}
	}
	return services.NewServices(db, keys)
}

func (a *app) openHistory() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	path := a.cfg.History.Path
	if path == "" {
		path = database.GetDefaultDBPath()
	}
	db, err := database.Init(database.Config{Path: path})
	if err != nil {
		return nil, fmt.Errorf("open history at %s: %w", path, err)
	}
	a.db = db
	return db, nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := database.Close(a.db); err != nil {
		logger.WithComponent("cli").WithError(err).Warn("closing history database")
	}
	a.db = nil
}
