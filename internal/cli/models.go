package cli

import (
	"fmt"
	"strings"

	"codereview/internal/services"

	"github.com/spf13/cobra"
)

func newModelsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported providers and models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := services.NewModelCatalogService()
			if err != nil {
				return err
			}
			for _, group := range catalog.ListModelGroups() {
				marker := ""
				if group.ProviderID == a.cfg.Provider {
					marker = " (configured)"
				}
				fmt.Fprintf(a.stdout, "%s - %s%s\n", group.ProviderID, group.ProviderName, marker)
				fmt.Fprintf(a.stdout, "  keys: %s\n", strings.Join(group.APIKeyEnv, ", "))
				for _, m := range group.Models {
					suffix := ""
					if m.Default {
						suffix = " (default)"
					}
					fmt.Fprintf(a.stdout, "  - %s%s\n", m.APIName, suffix)
				}
				fmt.Fprintln(a.stdout)
			}
			return nil
		},
	}
}
