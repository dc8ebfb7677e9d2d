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

// NewReactionsCommand creates the reactions command group.
func NewReactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reactions",
		Aliases: []string{"reaction"},
		Short:   "Manage comment reactions",
		Long:    "List, add, and remove emoji reactions on comments",
	}

	cmd.AddCommand(newReactionsListCommand())
	cmd.AddCommand(newReactionsAddCommand())
	cmd.AddCommand(newReactionsRemoveCommand())

	return cmd
}

func newReactionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list COMMENT_ID",
		Short: "List reactions",
		Long:  "List the reactions on a comment",
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

			reactions, err := apiClient.Reactions().List(ctx, commentID)
			if err != nil {
				return fmt.Errorf("listing reactions: %w", err)
			}

			return outputReactions(reactions)
		},
	}
}

func outputReactions(reactions []fizzy.Reaction) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(reactions)
	case OutputFormatYAML:
		return StandardYAMLRenderer(reactions)
	default:
		return renderReactionsTable(reactions)
	}
}

func renderReactionsTable(reactions []fizzy.Reaction) error {
	if len(reactions) == 0 {
		_, _ = os.Stdout.WriteString("No reactions found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Reaction", "By")

	for _, reaction := range reactions {
		reactor := ""
		if reaction.Reactor != nil {
			reactor = reaction.Reactor.Name
		}

		_ = table.Append(fmt.Sprintf("%d", reaction.ID), reaction.Content, reactor)
	}

	_ = table.Render()

	return nil
}

func newReactionsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add COMMENT_ID EMOJI",
		Short: "Add a reaction",
		Long:  "Attach an emoji reaction to a comment",
		Args:  cobra.ExactArgs(2),
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

			reaction, err := apiClient.Reactions().Add(ctx, commentID, args[1])
			if err != nil {
				return fmt.Errorf("adding reaction: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Added %s to comment %d\n", reaction.Content, commentID)

			return nil
		},
	}
}

func newReactionsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove COMMENT_ID REACTION_ID",
		Short: "Remove a reaction",
		Long:  "Remove an emoji reaction from a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			commentID, err := parseResourceID(args[0])
			if err != nil {
				return err
			}

			reactionID, err := parseResourceID(args[1])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = apiClient.Reactions().Remove(ctx, commentID, reactionID)
			if err != nil {
				return fmt.Errorf("removing reaction: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Removed reaction %d from comment %d\n", reactionID, commentID)

			return nil
		},
	}
}
