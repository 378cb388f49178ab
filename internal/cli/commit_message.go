package cli

import (
	"fmt"

	"codereview/internal/llm/tools"

	"github.com/spf13/cobra"
)

func newCommitMessageCommand(a *app) *cobra.Command {
	var commitType string

	cmd := &cobra.Command{
		Use:   "commit-message [dir]",
		Short: "Compose a conventional commit message for the current changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := a.collectChanges(cmd, dirArg(args), false)
			if err != nil {
				return err
			}
			out, err := tools.GenerateCommitMessage(cmd.Context(), &tools.CommitMessageInput{
				Changes: changes,
				Type:    tools.CommitType(commitType),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, out.FullMessage)
			return nil
		},
	}
	cmd.Flags().StringVarP(&commitType, "type", "t", "", "Commit type: feat, fix, docs, style, refactor, test, chore")
	return cmd
}
