package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/fizzy-hq/fizzy-cli/internal/client"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewCardsCommand creates the cards command group.
func NewCardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Manage cards",
		Long:    "List, create, update, move, and close Fizzy cards",
	}

	cmd.AddCommand(newCardsListCommand())
	cmd.AddCommand(newCardsGetCommand())
	cmd.AddCommand(newCardsCreateCommand())
	cmd.AddCommand(newCardsUpdateCommand())
	cmd.AddCommand(newCardsCloseCommand())
	cmd.AddCommand(newCardsReopenCommand())
	cmd.AddCommand(newCardsMoveCommand())
	cmd.AddCommand(newCardsAssignCommand())
	cmd.AddCommand(newCardsUnassignCommand())
	cmd.AddCommand(newCardsAttachCommand())
	cmd.AddCommand(newCardsDeleteCommand())

	return cmd
}

func newCardsListCommand() *cobra.Command {
	var (
		allPages bool
		board    string
		column   int64
		assignee string
		tag      string
		status   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Long:  "List cards in the active account, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			filters := client.CardFilters{
				ColumnID: column,
				Assignee: assignee,
				Tag:      tag,
				Status:   fizzy.CardStatus(status),
			}

			if board != "" {
				resolved, err := resolveBoard(ctx, apiClient, board)
				if err != nil {
					return err
				}

				filters.BoardID = resolved.ID
			}

			var (
				cards   []fizzy.Card
				hasNext bool
			)

			if allPages {
				cards, err = apiClient.Cards().ListAll(ctx, filters, 0)
			} else {
				var page *client.ListPage[fizzy.Card]

				page, err = apiClient.Cards().List(ctx, filters)
				if err == nil {
					cards = page.Items
					hasNext = page.HasNext
				}
			}

			if err != nil {
				return fmt.Errorf("listing cards: %w", err)
			}

			return outputCards(cards, hasNext, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&board, "board", "", "filter by board ID or name")
	cmd.Flags().Int64Var(&column, "column", 0, "filter by column ID")
	cmd.Flags().StringVar(&assignee, "assignee", "", "filter by assignee")
	cmd.Flags().StringVar(&tag, "tag", "", "filter by tag")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (open, closed)")

	return cmd
}

func outputCards(cards []fizzy.Card, hasNext, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(cards)
	case OutputFormatYAML:
		return StandardYAMLRenderer(cards)
	default:
		return renderCardsTable(cards, hasNext, allPages)
	}
}

func renderCardsTable(cards []fizzy.Card, hasNext, allPages bool) error {
	if len(cards) == 0 {
		_, _ = os.Stdout.WriteString("No cards found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Title", "Status", "Column", "Assignees", "Tags")

	for _, card := range cards {
		columnName := ""
		if card.Column != nil {
			columnName = card.Column.Name
		}

		assignees := make([]string, 0, len(card.Assignees))
		for _, assignee := range card.Assignees {
			assignees = append(assignees, assignee.Name)
		}

		tags := make([]string, 0, len(card.Tags))
		for _, tag := range card.Tags {
			tags = append(tags, tag.Title)
		}

		_ = table.Append(fmt.Sprintf("%d", card.Number), card.Title, string(card.Status),
			columnName, strings.Join(assignees, ", "), strings.Join(tags, ", "))
	}

	_ = table.Render()

	printPageHint(hasNext, allPages)

	return nil
}

func newCardsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CARD_NUMBER",
		Short: "Get card details",
		Long:  "Display detailed information about a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseCardNumber(args[0])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			card, err := apiClient.Cards().Get(ctx, number)
			if err != nil {
				return fmt.Errorf("getting card: %w", err)
			}

			return outputCardDetails(card)
		},
	}
}

func outputCardDetails(card *fizzy.Card) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(card)
	case OutputFormatYAML:
		return StandardYAMLRenderer(card)
	default:
		return renderCardDetailsTable(card)
	}
}

func renderCardDetailsTable(card *fizzy.Card) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Number", fmt.Sprintf("#%d", card.Number))
	_ = table.Append("Title", card.Title)
	_ = table.Append("Status", string(card.Status))

	if card.Board != nil {
		_ = table.Append("Board", card.Board.Name)
	}

	if card.Column != nil {
		_ = table.Append("Column", card.Column.Name)
	}

	if card.Description != "" {
		_ = table.Append("Description", card.Description)
	}

	_ = table.Append("Last activity", card.LastActivityAt.Format("2006-01-02 15:04:05"))
	_ = table.Append("Created", card.CreatedAt.Format("2006-01-02 15:04:05"))

	_, _ = os.Stdout.WriteString("Card details:\n\n")

	_ = table.Render()

	return nil
}

func newCardsCreateCommand() *cobra.Command {
	var (
		board       string
		title       string
		description string
		columnID    int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card",
		Long:  "Create a new card on a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return ErrCardTitleRequired
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			resolved, err := resolveBoard(ctx, apiClient, board)
			if err != nil {
				return err
			}

			request := &client.CardCreateRequest{
				Title:       title,
				Description: description,
			}

			if columnID != 0 {
				request.ColumnID = &columnID
			}

			card, err := apiClient.Cards().Create(ctx, resolved.ID, request)
			if err != nil {
				return fmt.Errorf("creating card: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully created card #%d '%s'\n", card.Number, card.Title)

			return nil
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "board ID or name (required)")
	cmd.Flags().StringVar(&title, "title", "", "card title (required)")
	cmd.Flags().StringVar(&description, "description", "", "card description")
	cmd.Flags().Int64Var(&columnID, "column", 0, "column ID to place the card in")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newCardsUpdateCommand() *cobra.Command {
	var (
		title       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update CARD_NUMBER",
		Short: "Update a card",
		Long:  "Change a card's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && description == "" {
				return ErrNoUpdatesSpecified
			}

			number, err := parseCardNumber(args[0])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			card, err := apiClient.Cards().Update(ctx, number, &client.CardUpdateRequest{
				Title:       title,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("updating card: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully updated card #%d\n", card.Number)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new card title")
	cmd.Flags().StringVar(&description, "description", "", "new card description")

	return cmd
}

func newCardsCloseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close CARD_NUMBER",
		Short: "Close a card",
		Long:  "Mark a card as closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardStateCommand(args[0], "close")
		},
	}
}

func newCardsReopenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen CARD_NUMBER",
		Short: "Reopen a card",
		Long:  "Reopen a previously closed card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardStateCommand(args[0], "reopen")
		},
	}
}

func runCardStateCommand(arg, action string) error {
	number, err := parseCardNumber(arg)
	if err != nil {
		return err
	}

	apiClient, err := requireAccountClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if action == "close" {
		err = apiClient.Cards().Close(ctx, number)
		if err != nil {
			return fmt.Errorf("closing card: %w", err)
		}

		_, _ = fmt.Fprintf(os.Stdout, "Successfully closed card #%d\n", number)
	} else {
		err = apiClient.Cards().Reopen(ctx, number)
		if err != nil {
			return fmt.Errorf("reopening card: %w", err)
		}

		_, _ = fmt.Fprintf(os.Stdout, "Successfully reopened card #%d\n", number)
	}

	return nil
}

func newCardsMoveCommand() *cobra.Command {
	var columnID int64

	cmd := &cobra.Command{
		Use:   "move CARD_NUMBER",
		Short: "Move a card",
		Long:  "Move a card to another column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseCardNumber(args[0])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			card, err := apiClient.Cards().Move(ctx, number, columnID)
			if err != nil {
				return fmt.Errorf("moving card: %w", err)
			}

			columnName := ""
			if card.Column != nil {
				columnName = " to '" + card.Column.Name + "'"
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully moved card #%d%s\n", card.Number, columnName)

			return nil
		},
	}

	cmd.Flags().Int64Var(&columnID, "column", 0, "destination column ID (required)")
	_ = cmd.MarkFlagRequired("column")

	return cmd
}

func newCardsAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign CARD_NUMBER USER_ID",
		Short: "Assign a user to a card",
		Long:  "Add a user to a card's assignees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardAssignment(args[0], args[1], true)
		},
	}
}

func newCardsUnassignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign CARD_NUMBER USER_ID",
		Short: "Unassign a user from a card",
		Long:  "Remove a user from a card's assignees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardAssignment(args[0], args[1], false)
		},
	}
}

func runCardAssignment(cardArg, userArg string, assign bool) error {
	number, err := parseCardNumber(cardArg)
	if err != nil {
		return err
	}

	userID, err := parseResourceID(userArg)
	if err != nil {
		return err
	}

	apiClient, err := requireAccountClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if assign {
		err = apiClient.Cards().Assign(ctx, number, userID)
		if err != nil {
			return fmt.Errorf("assigning card: %w", err)
		}

		_, _ = fmt.Fprintf(os.Stdout, "Successfully assigned user %d to card #%d\n", userID, number)
	} else {
		err = apiClient.Cards().Unassign(ctx, number, userID)
		if err != nil {
			return fmt.Errorf("unassigning card: %w", err)
		}

		_, _ = fmt.Fprintf(os.Stdout, "Successfully unassigned user %d from card #%d\n", userID, number)
	}

	return nil
}

func newCardsAttachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "attach CARD_NUMBER FILE",
		Short: "Attach a file to a card",
		Long:  "Upload a file and attach it to a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseCardNumber(args[0])
			if err != nil {
				return err
			}

			filePath := args[1]
			if filePath == "" {
				return ErrAttachmentFileNeeded
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			path := fmt.Sprintf("/cards/%d/attachments", number)

			raw, err := apiClient.Uploads().UploadFile(ctx, http.MethodPost, path, filePath, "attachment[file]", nil)
			if err != nil {
				return fmt.Errorf("attaching file: %w", err)
			}

			var attachment fizzy.Attachment
			if err := json.Unmarshal(raw, &attachment); err == nil && attachment.Filename != "" {
				_, _ = fmt.Fprintf(os.Stdout, "Successfully attached '%s' (%d bytes) to card #%d\n",
					attachment.Filename, attachment.ByteSize, number)

				return nil
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully attached file to card #%d\n", number)

			return nil
		},
	}
}

func newCardsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete CARD_NUMBER",
		Short: "Delete a card",
		Long:  "Permanently delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseCardNumber(args[0])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if !confirmAction(force, fmt.Sprintf("Really delete card #%d?", number)) {
				return nil
			}

			err = apiClient.Cards().Delete(ctx, number)
			if err != nil {
				return fmt.Errorf("deleting card: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted card #%d\n", number)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
