package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"codereview/internal/models"
	"codereview/internal/services"

	"github.com/spf13/cobra"
)

var errHistoryDisabled = errors.New("run history is disabled (history.enabled: false)")

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-key]",
		Short: "List recent review runs, or show one run in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			if !a.cfg.History.IsEnabled() {
				return errHistoryDisabled
			}
			svc, err := a.services(historyRequired)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				run, err := svc.Runs.Get(args[0])
				if err != nil {
					return err
				}
				printRun(a.stdout, run)
				return nil
			}

			runs, err := svc.Runs.List(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.stderr, "No review runs recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tPROVIDER\tMODEL\tSTEPS\tTOOLS\tCOMMIT\tDIR")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d/%d\t%s\t%s\n",
					run.RunKey,
					run.StartedAt.Local().Format(time.DateTime),
					run.Status,
					run.Provider,
					run.Model,
					run.Steps,
					run.ToolCalls-run.FailedTools,
					run.ToolCalls,
					shortHash(run.HeadCommit),
					run.RootDir,
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", services.DefaultHistoryLimit, "Number of runs to show")
	return cmd
}

func printRun(w io.Writer, run *models.ReviewRun) {
	finished := "-"
	if run.FinishedAt != nil {
		finished = run.FinishedAt.Local().Format(time.DateTime)
	}
	fmt.Fprintf(w, "Run:       %s\n", run.RunKey)
	fmt.Fprintf(w, "Status:    %s\n", run.Status)
	fmt.Fprintf(w, "Model:     %s/%s\n", run.Provider, run.Model)
	fmt.Fprintf(w, "Directory: %s\n", run.RootDir)
	fmt.Fprintf(w, "Branch:    %s @ %s\n", orDash(run.Branch), shortHash(run.HeadCommit))
	fmt.Fprintf(w, "Steps:     %d\n", run.Steps)
	fmt.Fprintf(w, "Tools:     %d ok, %d failed\n", run.ToolCalls-run.FailedTools, run.FailedTools)
	fmt.Fprintf(w, "Started:   %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Finished:  %s\n", finished)
	if run.OutputPath != "" {
		fmt.Fprintf(w, "Output:    %s\n", run.OutputPath)
	}
	if run.Error != "" {
		fmt.Fprintf(w, "Error:     %s\n", run.Error)
	}
	fmt.Fprintf(w, "Prompt:\n%s\n", run.Prompt)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	if hash == "" {
		return "-"
	}
	return hash
}
