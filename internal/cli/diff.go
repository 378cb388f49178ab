package cli

import (
	"encoding/json"
	"fmt"

	"codereview/internal/llm/tools"

	"github.com/spf13/cobra"
)

func newDiffCommand(a *app) *cobra.Command {
	var asJSON, includeUntracked bool

	cmd := &cobra.Command{
		Use:   "diff [dir]",
		Short: "Print the changes the review agent would see",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := a.collectChanges(cmd, dirArg(args), includeUntracked)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(changes)
			}
			if len(changes) == 0 {
				fmt.Fprintln(a.stderr, "No uncommitted changes.")
				return nil
			}
			for _, change := range changes {
				fmt.Fprint(a.stdout, change.Diff)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tool's JSON output")
	cmd.Flags().BoolVar(&includeUntracked, "include-untracked", false, "Also list files git does not track yet")
	return cmd
}

func (a *app) collectChanges(cmd *cobra.Command, dir string, includeUntracked bool) ([]tools.FileChange, error) {
	collector := tools.NewDiffCollector(a.cfg.Exclude)
	collector.IncludeUntracked = a.cfg.IncludeUntracked || includeUntracked
	return collector.Collect(cmd.Context(), dir)
}

func dirArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
