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

// NewCommentsCommand creates the comments command group.
func NewCommentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Manage card comments",
		Long:    "List, create, update, and delete comments on cards",
	}

	cmd.AddCommand(newCommentsListCommand())
	cmd.AddCommand(newCommentsCreateCommand())
	cmd.AddCommand(newCommentsUpdateCommand())
	cmd.AddCommand(newCommentsDeleteCommand())

	return cmd
}

func newCommentsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list CARD_NUMBER",
		Short: "List comments",
		Long:  "List every comment on a card",
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

			comments, err := apiClient.Comments().List(ctx, number)
			if err != nil {
				return fmt.Errorf("listing comments: %w", err)
			}

			return outputComments(comments)
		},
	}
}

func outputComments(comments []fizzy.Comment) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(comments)
	case OutputFormatYAML:
		return StandardYAMLRenderer(comments)
	default:
		return renderCommentsTable(comments)
	}
}

func renderCommentsTable(comments []fizzy.Comment) error {
	if len(comments) == 0 {
		_, _ = os.Stdout.WriteString("No comments found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Author", "Posted", "Body")

	for _, comment := range comments {
		author := ""
		if comment.Creator != nil {
			author = comment.Creator.Name
		}

		_ = table.Append(fmt.Sprintf("%d", comment.ID), author,
			comment.CreatedAt.Format("2006-01-02 15:04"), comment.Body)
	}

	_ = table.Render()

	return nil
}

func newCommentsCreateCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "create CARD_NUMBER",
		Short: "Create a comment",
		Long:  "Post a comment on a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if body == "" {
				return ErrCommentBodyRequired
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

			comment, err := apiClient.Comments().Create(ctx, number, &client.CommentRequest{Body: body})
			if err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully posted comment %d on card #%d\n", comment.ID, number)

			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "comment body (required)")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newCommentsUpdateCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "update COMMENT_ID",
		Short: "Update a comment",
		Long:  "Edit the body of a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if body == "" {
				return ErrCommentBodyRequired
			}

			commentID, err := parseResourceID(args[0])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			comment, err := apiClient.Comments().Update(ctx, commentID, &client.CommentRequest{Body: body})
			if err != nil {
				return fmt.Errorf("updating comment: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully updated comment %d\n", comment.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "new comment body (required)")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newCommentsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete COMMENT_ID",
		Short: "Delete a comment",
		Long:  "Remove a comment from its card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commentID, err := parseResourceID(args[0])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if !confirmAction(force, fmt.Sprintf("Really delete comment %d?", commentID)) {
				return nil
			}

			err = apiClient.Comments().Delete(ctx, commentID)
			if err != nil {
				return fmt.Errorf("deleting comment: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted comment %d\n", commentID)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
