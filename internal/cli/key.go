package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"codereview/internal/services"

	"github.com/spf13/cobra"
)

func newKeyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage provider API keys stored in the OS keyring",
	}
	cmd.AddCommand(newKeySetCommand(a), newKeyDeleteCommand(a), newKeyListCommand(a))
	return cmd
}

func (a *app) keyring() (*services.KeyringService, services.ModelCatalogService, error) {
	ring, err := a.openKeyring()
	if err != nil {
		return nil, nil, err
	}
	catalog, err := services.NewModelCatalogService()
	if err != nil {
		return nil, nil, err
	}
	return services.NewKeyringService(ring), catalog, nil
}

func newKeySetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key read from standard input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, catalog, err := a.keyring()
			if err != nil {
				return err
			}
			provider := strings.TrimSpace(args[0])
			if _, err := catalog.Provider(provider); err != nil {
				return err
			}

			fmt.Fprintf(a.stderr, "Enter %s API key: ", provider)
			line, err := bufio.NewReader(a.stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read API key: %w", err)
			}
			if err := keys.StoreApiKey(provider, []byte(strings.TrimSpace(line))); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "\nStored API key for %s.\n", provider)
			return nil
		},
	}
}

func newKeyDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, _, err := a.keyring()
			if err != nil {
				return err
			}
			if err := keys.DeleteApiKey(args[0]); err != nil {
				if errors.Is(err, services.ErrAPIKeyNotFound) {
					return fmt.Errorf("no stored API key for %s", strings.TrimSpace(args[0]))
				}
				return err
			}
			fmt.Fprintf(a.stderr, "Deleted API key for %s.\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
}

func newKeyListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, _, err := a.keyring()
			if err != nil {
				return err
			}
			providers, err := keys.ListApiKeys()
			if err != nil {
				return err
			}
			for _, p := range providers {
				fmt.Fprintln(a.stdout, p)
			}
			return nil
		},
	}
}
