package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		withToken bool
		session   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to Fizzy",
		Long: `Authenticate with the Fizzy API using a personal access token.

The token is read interactively without echo, or from stdin when
--with-token is given. It is verified against the identity endpoint and
stored in the config file keyed by API host.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readToken(withToken)
			if err != nil {
				return err
			}

			if token == "" {
				return ErrTokenRequired
			}

			credentialType := fizzy.CredentialBearer
			if session {
				credentialType = fizzy.CredentialSession
			}

			viper.Set("token", token)

			apiClient, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			identity, err := apiClient.Identity(ctx)
			if err != nil {
				return fmt.Errorf("verifying token: %w", err)
			}

			config := loadConfig()
			config.Credentials[config.hostKey()] = &CredentialConfig{
				Type:  credentialType,
				Token: token,
			}

			if config.CurrentAccount == "" && len(identity.Accounts) > 0 {
				config.CurrentAccount = identity.Accounts[0].Slug
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Logged in as %s\n", identity.User.Name)

			if len(identity.Accounts) > 0 {
				_, _ = os.Stdout.WriteString("\nAvailable accounts:\n")
				for _, account := range identity.Accounts {
					marker := " "
					if account.Slug == config.CurrentAccount {
						marker = "*"
					}

					_, _ = fmt.Fprintf(os.Stdout, " %s %s (%s)\n", marker, account.Name, account.Slug)
				}

				_, _ = os.Stdout.WriteString("\nUse 'fizzy accounts use <slug>' to switch accounts\n")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&withToken, "with-token", false, "read the token from stdin")
	cmd.Flags().BoolVar(&session, "session", false, "store the token as a session credential")

	return cmd
}

func readToken(withToken bool) (string, error) {
	if withToken {
		reader := bufio.NewReader(os.Stdin)

		token, err := reader.ReadString('\n')
		if err != nil && token == "" {
			return "", fmt.Errorf("reading token from stdin: %w", err)
		}

		return strings.TrimSpace(token), nil
	}

	_, _ = os.Stdout.WriteString("Personal access token: ")

	byteToken, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}

	_, _ = os.Stdout.WriteString("\n")

	return strings.TrimSpace(string(byteToken)), nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of Fizzy",
		Long:  "Remove the stored credential for the configured API host",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			host := config.hostKey()
			if _, ok := config.Credentials[host]; !ok {
				_, _ = os.Stdout.WriteString("Not logged in\n")

				return nil
			}

			delete(config.Credentials, host)

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Logged out of %s\n", host)

			return nil
		},
	}
}
