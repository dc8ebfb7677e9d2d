package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewAccountsCommand creates the accounts command group.
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage account scope",
		Long:    "List the accounts you belong to and switch the active account",
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsUseCommand())

	return cmd
}

func newAccountsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long:  "List every account the authenticated user belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			identity, err := apiClient.Identity(ctx)
			if err != nil {
				return fmt.Errorf("fetching identity: %w", err)
			}

			return outputAccounts(identity.Accounts)
		},
	}
}

func outputAccounts(accounts []fizzy.Account) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(accounts)
	case OutputFormatYAML:
		return StandardYAMLRenderer(accounts)
	default:
		return renderAccountsTable(accounts)
	}
}

func renderAccountsTable(accounts []fizzy.Account) error {
	if len(accounts) == 0 {
		_, _ = os.Stdout.WriteString("No accounts found\n")

		return nil
	}

	current := loadConfig().CurrentAccount

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("", "Name", "Slug", "ID")

	for _, account := range accounts {
		marker := ""
		if account.Slug == current {
			marker = "*"
		}

		_ = table.Append(marker, account.Name, account.Slug, fmt.Sprintf("%d", account.ID))
	}

	_ = table.Render()

	return nil
}

func newAccountsUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use ACCOUNT_SLUG",
		Short: "Switch the active account",
		Long:  "Set the account slug used to scope subsequent commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			apiClient, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			identity, err := apiClient.Identity(ctx)
			if err != nil {
				return fmt.Errorf("fetching identity: %w", err)
			}

			found := false

			for _, account := range identity.Accounts {
				if account.Slug == slug {
					found = true

					break
				}
			}

			if !found {
				return fmt.Errorf("account %q: %w", slug, ErrAccountNotFound)
			}

			config := loadConfig()
			config.CurrentAccount = slug

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Now using account '%s'\n", slug)

			return nil
		},
	}
}
