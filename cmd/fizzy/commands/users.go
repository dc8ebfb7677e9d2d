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

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage account users",
		Long:    "List account members and show the authenticated user",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersMeCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var allPages bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List the members of the active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var (
				users   []fizzy.User
				hasNext bool
			)

			if allPages {
				users, err = apiClient.Users().ListAll(ctx, 0)
			} else {
				page, pageErr := apiClient.Users().List(ctx, nil)
				if pageErr == nil {
					users = page.Items
					hasNext = page.HasNext
				}

				err = pageErr
			}

			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}

			return outputUsers(users, hasNext, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func outputUsers(users []fizzy.User, hasNext, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(users)
	case OutputFormatYAML:
		return StandardYAMLRenderer(users)
	default:
		return renderUsersTable(users, hasNext, allPages)
	}
}

func renderUsersTable(users []fizzy.User, hasNext, allPages bool) error {
	if len(users) == 0 {
		_, _ = os.Stdout.WriteString("No users found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Email", "Role", "Active")

	for _, user := range users {
		active := "yes"
		if !user.Active {
			active = "no"
		}

		_ = table.Append(fmt.Sprintf("%d", user.ID), user.Name, user.EmailAddress,
			string(user.Role), active)
	}

	_ = table.Render()

	printPageHint(hasNext, allPages)

	return nil
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user details",
		Long:  "Display detailed information about an account member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseResourceID(args[0])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			user, err := apiClient.Users().Get(ctx, userID)
			if err != nil {
				return fmt.Errorf("getting user: %w", err)
			}

			return outputUserDetails(user)
		},
	}
}

func outputUserDetails(user *fizzy.User) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(user)
	case OutputFormatYAML:
		return StandardYAMLRenderer(user)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")

		_ = table.Append("ID", fmt.Sprintf("%d", user.ID))
		_ = table.Append("Name", user.Name)
		_ = table.Append("Email", user.EmailAddress)
		_ = table.Append("Role", string(user.Role))

		_ = table.Render()

		return nil
	}
}

func newUsersMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user",
		Long:  "Display the authenticated user's identity and account memberships",
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

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(identity)
			case OutputFormatYAML:
				return StandardYAMLRenderer(identity)
			default:
				_, _ = fmt.Fprintf(os.Stdout, "Logged in as %s <%s>\n\n", identity.User.Name, identity.User.EmailAddress)

				return renderAccountsTable(identity.Accounts)
			}
		},
	}
}
