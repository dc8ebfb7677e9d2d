package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fizzy-hq/fizzy-cli/internal/client"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewBoardsCommand creates the boards command group.
func NewBoardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "boards",
		Aliases: []string{"board"},
		Short:   "Manage boards",
		Long:    "List, create, update, and delete Fizzy boards",
	}

	cmd.AddCommand(newBoardsListCommand())
	cmd.AddCommand(newBoardsGetCommand())
	cmd.AddCommand(newBoardsCreateCommand())
	cmd.AddCommand(newBoardsUpdateCommand())
	cmd.AddCommand(newBoardsDeleteCommand())

	return cmd
}

func newBoardsListCommand() *cobra.Command {
	var allPages bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boards",
		Long:  "List the boards in the active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoardsListCommand(allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func runBoardsListCommand(allPages bool) error {
	apiClient, err := requireAccountClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	var (
		boards  []fizzy.Board
		hasNext bool
	)

	if allPages {
		boards, err = apiClient.Boards().ListAll(ctx, 0)
	} else {
		var page *client.ListPage[fizzy.Board]

		page, err = apiClient.Boards().List(ctx, nil)
		if err == nil {
			boards = page.Items
			hasNext = page.HasNext
		}
	}

	if err != nil {
		return fmt.Errorf("listing boards: %w", err)
	}

	return outputBoards(boards, hasNext, allPages)
}

func outputBoards(boards []fizzy.Board, hasNext, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(boards)
	case OutputFormatYAML:
		return StandardYAMLRenderer(boards)
	default:
		return renderBoardsTable(boards, hasNext, allPages)
	}
}

func renderBoardsTable(boards []fizzy.Board, hasNext, allPages bool) error {
	if len(boards) == 0 {
		_, _ = os.Stdout.WriteString("No boards found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Created", "Updated")

	for _, board := range boards {
		_ = table.Append(fmt.Sprintf("%d", board.ID), board.Name,
			board.CreatedAt.Format("2006-01-02"),
			board.UpdatedAt.Format("2006-01-02"))
	}

	_ = table.Render()

	printPageHint(hasNext, allPages)

	return nil
}

func newBoardsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BOARD_ID_OR_NAME",
		Short: "Get board details",
		Long:  "Display detailed information about a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			board, err := resolveBoard(ctx, apiClient, args[0])
			if err != nil {
				return err
			}

			return outputBoardDetails(board)
		},
	}
}

func outputBoardDetails(board *fizzy.Board) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(board)
	case OutputFormatYAML:
		return StandardYAMLRenderer(board)
	default:
		return renderBoardDetailsTable(board)
	}
}

func renderBoardDetailsTable(board *fizzy.Board) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", fmt.Sprintf("%d", board.ID))
	_ = table.Append("Name", board.Name)
	_ = table.Append("Created", board.CreatedAt.Format("2006-01-02 15:04:05"))
	_ = table.Append("Updated", board.UpdatedAt.Format("2006-01-02 15:04:05"))

	_, _ = os.Stdout.WriteString("Board details:\n\n")

	_ = table.Render()

	return nil
}

func newBoardsCreateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		Long:  "Create a new board in the active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrBoardNameRequired
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			board, err := apiClient.Boards().Create(ctx, &client.BoardCreateRequest{Name: name})
			if err != nil {
				return fmt.Errorf("creating board: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully created board '%s' (ID: %d)\n", board.Name, board.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "board name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newBoardsUpdateCommand() *cobra.Command {
	var newName string

	cmd := &cobra.Command{
		Use:   "update BOARD_ID_OR_NAME",
		Short: "Update a board",
		Long:  "Rename an existing board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if newName == "" {
				return ErrNoUpdatesSpecified
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			board, err := resolveBoard(ctx, apiClient, args[0])
			if err != nil {
				return err
			}

			updated, err := apiClient.Boards().Update(ctx, board.ID, &client.BoardUpdateRequest{Name: newName})
			if err != nil {
				return fmt.Errorf("updating board: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully updated board '%s' (ID: %d)\n", updated.Name, updated.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "new board name")

	return cmd
}

func newBoardsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete BOARD_ID_OR_NAME",
		Short: "Delete a board",
		Long:  "Delete a board and everything on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			board, err := resolveBoard(ctx, apiClient, args[0])
			if err != nil {
				return err
			}

			if !confirmAction(force, fmt.Sprintf("Really delete board '%s'?", board.Name)) {
				return nil
			}

			err = apiClient.Boards().Delete(ctx, board.ID)
			if err != nil {
				return fmt.Errorf("deleting board: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted board '%s'\n", board.Name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
