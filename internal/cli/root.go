package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"codereview/internal/config"
	"codereview/internal/events"
	"codereview/internal/logger"
	"codereview/internal/utils"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Run executes the command line and returns the process exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand(defaultDeps(os.Stdin, os.Stdout, os.Stderr))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	return ExitSuccess
}

func newRootCommand(d deps) *cobra.Command {
	a := &app{deps: d}

	root := &cobra.Command{
		Use:   "codereview",
		Short: "Agent-driven review of uncommitted git changes",
		Long: "codereview asks a hosted language model to review the uncommitted changes of a git " +
			"working tree and to write its findings to a markdown report.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(d.stdin)
	root.SetOut(d.stdout)
	root.SetErr(d.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file (default .codereview.yml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(
		newReviewCommand(a),
		newDiffCommand(a),
		newCommitMessageCommand(a),
		newHistoryCommand(a),
		newModelsCommand(a),
		newKeyCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads .env, the config file and the logger before any command runs.
func (a *app) setup() error {
	if path, err := utils.LoadEnv("."); err != nil {
		return fmt.Errorf("load .env: %w", err)
	} else if path != "" {
		a.envFile = path
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Log.Init(a.stderr); err != nil {
		return err
	}
	events.EnableLogEmitter(logger.Get())
	if a.envFile != "" {
		logger.WithComponent("cli").WithField("path", a.envFile).Debug("loaded .env")
	}

	a.cfg = cfg
	return nil
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the codereview version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "codereview version %s\n", Version)
		},
	}
}

// Version is overridden at build time with -ldflags.
var Version = "dev"
