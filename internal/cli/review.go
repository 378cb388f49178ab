package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"codereview/internal/events"
	"codereview/internal/llm/client"
	"codereview/internal/llm/tools"
	"codereview/internal/logger"
	"codereview/internal/models"
	"codereview/internal/services"
	"codereview/internal/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const defaultReportFile = "code-review-report.md"

type reviewOptions struct {
	dir              string
	output           string
	provider         string
	model            string
	maxSteps         int
	includeUntracked bool
	// dirGiven is set when --dir was passed explicitly.
	dirGiven bool
}

func newReviewCommand(a *app) *cobra.Command {
	var opts reviewOptions

	cmd := &cobra.Command{
		Use:   "review [prompt]",
		Short: "Review uncommitted changes and write a markdown report",
		Long: "Runs the review agent. Without a prompt, the agent is asked to review the changes in --dir " +
			"file by file and save its findings as --output.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-steps") {
				opts.maxSteps = a.cfg.MaxSteps
			}
			opts.dirGiven = cmd.Flags().Changed("dir")
			return a.runReview(cmd.Context(), opts, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dir, "dir", ".", "Directory whose uncommitted changes are reviewed")
	f.StringVarP(&opts.output, "output", "o", defaultReportFile, "Report file the agent is asked to write")
	f.StringVar(&opts.provider, "provider", "", "Model provider: gemini, anthropic, openai")
	f.StringVar(&opts.model, "model", "", "Provider model name")
	f.IntVar(&opts.maxSteps, "max-steps", client.DefaultMaxSteps, "Maximum model turns")
	f.BoolVar(&opts.includeUntracked, "include-untracked", false, "Also review files git does not track yet")
	return cmd
}

// DefaultPrompt is the instruction used when review is called without one.
func DefaultPrompt(dir, output string) string {
	return fmt.Sprintf("Review the code changes in '%s' directory, make your reviews and suggestions file by file. "+
		"After completing the review, generate a comprehensive markdown file containing all your findings, "+
		"suggestions, and recommendations. Save it as '%s' in the current directory.", dir, output)
}

func (a *app) runReview(ctx context.Context, opts reviewOptions, prompt string) error {
	defer a.close()
	log := logger.WithComponent("review")

	// A custom prompt names its own target; --dir is only checked when it is
	// part of the instruction or was passed explicitly.
	customPrompt := strings.TrimSpace(prompt) != ""
	if (!customPrompt || opts.dirGiven) && !utils.DirectoryExists(opts.dir) {
		return fmt.Errorf("directory %s does not exist", opts.dir)
	}
	if !customPrompt {
		prompt = DefaultPrompt(opts.dir, opts.output)
	}

	svc, err := a.services(historyOptional)
	if err != nil {
		return err
	}

	providerID, modelName, err := a.resolveModel(svc, opts)
	if err != nil {
		return err
	}
	cred, err := svc.Credentials.Resolve(providerID)
	if err != nil {
		return err
	}
	log.WithField("provider", providerID).WithField("model", modelName).WithField("key_source", cred.Source).Info("starting review")

	chatModel, err := a.newChatModel(ctx, providerID, modelName, cred.Key)
	if err != nil {
		return err
	}

	collector := tools.NewDiffCollector(a.cfg.Exclude)
	collector.IncludeUntracked = a.cfg.IncludeUntracked || opts.includeUntracked
	registry, err := tools.NewReviewRegistry(collector)
	if err != nil {
		return err
	}
	agent, err := client.NewReviewAgent(chatModel, registry,
		client.WithMaxSteps(opts.maxSteps),
		client.WithOutput(a.stdout),
	)
	if err != nil {
		return err
	}

	run := a.startRun(svc, opts, prompt, providerID, modelName)
	sessionKey := uuid.NewString()
	if run != nil {
		sessionKey = run.RunKey
	}
	ctx = events.WithSession(ctx, sessionKey)

	report, runErr := agent.Run(ctx, prompt)
	fmt.Fprintln(a.stdout)
	a.finishRun(svc, run, report, runErr)

	if runErr != nil {
		return runErr
	}
	if report.StoppedAtLimit {
		fmt.Fprintf(a.stderr, "Stopped after %d steps without a final answer.\n", report.Steps)
	}
	return nil
}

// resolveModel applies flag, config and catalog defaults in that order. A
// provider given on the command line does not inherit the configured model.
func (a *app) resolveModel(svc *services.Services, opts reviewOptions) (string, string, error) {
	providerID := strings.TrimSpace(opts.provider)
	modelName := strings.TrimSpace(opts.model)
	if providerID == "" || providerID == a.cfg.Provider {
		providerID = a.cfg.Provider
		if modelName == "" {
			modelName = a.cfg.Model
		}
	}
	if _, err := svc.Catalog.Provider(providerID); err != nil {
		return "", "", err
	}
	if modelName == "" {
		def, err := svc.Catalog.DefaultModel(providerID)
		if err != nil {
			return "", "", err
		}
		modelName = def
	}
	return providerID, modelName, nil
}

// startRun records the run in history. Failures are logged and the review
// continues without a record.
func (a *app) startRun(svc *services.Services, opts reviewOptions, prompt, providerID, modelName string) *models.ReviewRun {
	if svc.Runs == nil {
		return nil
	}
	log := logger.WithComponent("history")

	run := &models.ReviewRun{
		Prompt:     prompt,
		Provider:   providerID,
		Model:      modelName,
		OutputPath: opts.output,
	}
	if info, err := svc.Git.Describe(opts.dir); err == nil {
		run.RootDir = info.Root
		run.Branch = info.Branch
		run.HeadCommit = info.HeadCommit
	} else {
		log.WithError(err).Debug("describe repository")
		if abs, absErr := filepath.Abs(opts.dir); absErr == nil {
			run.RootDir = abs
		} else {
			run.RootDir = opts.dir
		}
	}

	started, err := svc.Runs.Start(run)
	if err != nil {
		log.WithError(err).Warn("could not record review run")
		return nil
	}
	return started
}

func (a *app) finishRun(svc *services.Services, run *models.ReviewRun, report *client.RunReport, runErr error) {
	if run == nil {
		return
	}
	outcome := services.RunOutcome{Err: runErr}
	if report != nil {
		outcome.Steps = report.Steps
		outcome.ToolCalls = report.ToolCalls
		outcome.FailedTools = report.FailedTools
		outcome.StoppedAtLimit = report.StoppedAtLimit
	}
	if err := svc.Runs.Finish(run, outcome); err != nil {
		logger.WithComponent("history").WithError(err).Warn("could not update review run")
	}
}
