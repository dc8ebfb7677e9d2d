package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fizzy-hq/fizzy-cli/internal/client"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Common static errors used throughout the commands package.
var (
	ErrNotLoggedIn          = errors.New("not logged in (run 'fizzy login' first)")
	ErrAccountRequired      = errors.New("account is required (use --account or 'fizzy accounts use')")
	ErrBoardNameRequired    = errors.New("board name is required")
	ErrCardTitleRequired    = errors.New("card title is required")
	ErrColumnNameRequired   = errors.New("column name is required")
	ErrCommentBodyRequired  = errors.New("comment body is required")
	ErrAccountNotFound      = errors.New("account not found")
	ErrBoardNotFound        = errors.New("board not found")
	ErrNoUpdatesSpecified   = errors.New("no updates specified")
	ErrTokenRequired        = errors.New("token is required")
	ErrInvalidCardNumber    = errors.New("card number must be a positive integer")
	ErrInvalidResourceID    = errors.New("resource ID must be a positive integer")
	ErrConfigKeyUnknown     = errors.New("unknown configuration key")
	ErrAttachmentFileNeeded = errors.New("attachment file path is required")
)

// CreateClient builds an API client from the effective configuration
// (flags, environment, config file). Account may be empty for commands that
// only touch account-independent endpoints.
func CreateClient() (*client.Client, error) {
	cfg := loadConfig()

	credential, ok := cfg.credentialForHost()
	if !ok && viper.GetString("token") == "" {
		return nil, ErrNotLoggedIn
	}

	clientConfig := fizzy.NewConfig()
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.Account = viper.GetString("account")

	if clientConfig.Account == "" {
		clientConfig.Account = cfg.CurrentAccount
	}

	if token := viper.GetString("token"); token != "" {
		clientConfig.Credential = fizzy.Credential{Type: fizzy.CredentialBearer, Token: token}
	} else {
		clientConfig.Credential = fizzy.Credential{Type: credential.Type, Token: credential.Token}
	}

	if viper.GetBool("verbose") {
		clientConfig.Debug = true
		clientConfig.Logger = NewCommandLogger()
	}

	apiClient, err := client.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}

	return apiClient, nil
}

// requireAccountClient builds a client and verifies an account is scoped.
func requireAccountClient() (*client.Client, error) {
	apiClient, err := CreateClient()
	if err != nil {
		return nil, err
	}

	if apiClient.Account() == "" {
		return nil, ErrAccountRequired
	}

	return apiClient, nil
}

// StandardJSONRenderer writes data as indented JSON to stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML to stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding to YAML: %w", err)
	}

	return nil
}

// confirmAction prompts for a y/N confirmation unless force is set. Returns
// true when the action should proceed.
func confirmAction(force bool, prompt string) bool {
	if force {
		return true
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s (y/N): ", prompt)

	var response string

	_, _ = fmt.Scanln(&response)

	if response != "y" && response != "Y" {
		_, _ = os.Stdout.WriteString("Cancelled\n")

		return false
	}

	return true
}

// parseCardNumber parses a card number argument, accepting a leading '#'.
func parseCardNumber(arg string) (int, error) {
	if len(arg) > 0 && arg[0] == '#' {
		arg = arg[1:]
	}

	number, err := strconv.Atoi(arg)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCardNumber, arg)
	}

	return number, nil
}

// parseResourceID parses a numeric resource ID argument.
func parseResourceID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidResourceID, arg)
	}

	return id, nil
}

// printPageHint tells the user more pages exist after a non-exhaustive list.
func printPageHint(hasNext, allPages bool) {
	if !allPages && hasNext {
		_, _ = fmt.Fprintf(os.Stdout, "\nMore results available. Use --all to fetch every page.\n")
	}
}

// resolveBoard finds a board by numeric ID or name.
func resolveBoard(ctx context.Context, apiClient *client.Client, idOrName string) (*fizzy.Board, error) {
	if id, err := strconv.ParseInt(idOrName, 10, 64); err == nil {
		board, err := apiClient.Boards().Get(ctx, id)
		if err == nil {
			return board, nil
		}
	}

	boards, err := apiClient.Boards().ListAll(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("finding board: %w", err)
	}

	for i := range boards {
		if boards[i].Name == idOrName {
			return &boards[i], nil
		}
	}

	return nil, fmt.Errorf("board %q: %w", idOrName, ErrBoardNotFound)
}
