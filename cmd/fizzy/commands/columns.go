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

// NewColumnsCommand creates the columns command group.
func NewColumnsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "columns",
		Aliases: []string{"column"},
		Short:   "Manage board columns",
		Long:    "List, create, update, and delete the columns of a board",
	}

	cmd.AddCommand(newColumnsListCommand())
	cmd.AddCommand(newColumnsCreateCommand())
	cmd.AddCommand(newColumnsUpdateCommand())
	cmd.AddCommand(newColumnsDeleteCommand())

	return cmd
}

func newColumnsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list BOARD_ID_OR_NAME",
		Short: "List columns",
		Long:  "List the columns of a board in display order",
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

			columns, err := apiClient.Columns().List(ctx, board.ID)
			if err != nil {
				return fmt.Errorf("listing columns: %w", err)
			}

			return outputColumns(columns)
		},
	}
}

func outputColumns(columns []fizzy.Column) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(columns)
	case OutputFormatYAML:
		return StandardYAMLRenderer(columns)
	default:
		return renderColumnsTable(columns)
	}
}

func renderColumnsTable(columns []fizzy.Column) error {
	if len(columns) == 0 {
		_, _ = os.Stdout.WriteString("No columns found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Color", "Position")

	for _, column := range columns {
		_ = table.Append(fmt.Sprintf("%d", column.ID), column.Name, column.Color,
			fmt.Sprintf("%d", column.Position))
	}

	_ = table.Render()

	return nil
}

func newColumnsCreateCommand() *cobra.Command {
	var (
		name  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "create BOARD_ID_OR_NAME",
		Short: "Create a column",
		Long:  "Add a column to a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrColumnNameRequired
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

			column, err := apiClient.Columns().Create(ctx, board.ID, &client.ColumnCreateRequest{
				Name:  name,
				Color: color,
			})
			if err != nil {
				return fmt.Errorf("creating column: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully created column '%s' (ID: %d)\n", column.Name, column.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "column name (required)")
	cmd.Flags().StringVar(&color, "color", "", "column color")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newColumnsUpdateCommand() *cobra.Command {
	var (
		newName  string
		color    string
		position int
	)

	cmd := &cobra.Command{
		Use:   "update BOARD_ID_OR_NAME COLUMN_ID",
		Short: "Update a column",
		Long:  "Rename, recolor, or reposition a column",
		Args:  cobra.ExactArgs(2),
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

			columnID, err := parseResourceID(args[1])
			if err != nil {
				return err
			}

			request := &client.ColumnUpdateRequest{Name: newName, Color: color}
			if cmd.Flags().Changed("position") {
				request.Position = &position
			}

			if request.Name == "" && request.Color == "" && request.Position == nil {
				return ErrNoUpdatesSpecified
			}

			column, err := apiClient.Columns().Update(ctx, board.ID, columnID, request)
			if err != nil {
				return fmt.Errorf("updating column: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully updated column '%s' (ID: %d)\n", column.Name, column.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "new column name")
	cmd.Flags().StringVar(&color, "color", "", "new column color")
	cmd.Flags().IntVar(&position, "position", 0, "new column position")

	return cmd
}

func newColumnsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete BOARD_ID_OR_NAME COLUMN_ID",
		Short: "Delete a column",
		Long:  "Remove a column from a board",
		Args:  cobra.ExactArgs(2),
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

			columnID, err := parseResourceID(args[1])
			if err != nil {
				return err
			}

			if !confirmAction(force, fmt.Sprintf("Really delete column %d?", columnID)) {
				return nil
			}

			err = apiClient.Columns().Delete(ctx, board.ID, columnID)
			if err != nil {
				return fmt.Errorf("deleting column: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted column %d\n", columnID)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
