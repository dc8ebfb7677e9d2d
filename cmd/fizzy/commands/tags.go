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

// NewTagsCommand creates the tags command group.
func NewTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Manage tags",
		Long:    "List account tags and tag or untag cards",
	}

	cmd.AddCommand(newTagsListCommand())
	cmd.AddCommand(newTagsAddCommand())
	cmd.AddCommand(newTagsRemoveCommand())

	return cmd
}

func newTagsListCommand() *cobra.Command {
	var allPages bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Long:  "List the tags used in the active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var (
				tags    []fizzy.Tag
				hasNext bool
			)

			if allPages {
				tags, err = apiClient.Tags().ListAll(ctx, 0)
			} else {
				page, pageErr := apiClient.Tags().List(ctx, nil)
				if pageErr == nil {
					tags = page.Items
					hasNext = page.HasNext
				}

				err = pageErr
			}

			if err != nil {
				return fmt.Errorf("listing tags: %w", err)
			}

			return outputTags(tags, hasNext, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func outputTags(tags []fizzy.Tag, hasNext, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(tags)
	case OutputFormatYAML:
		return StandardYAMLRenderer(tags)
	default:
		return renderTagsTable(tags, hasNext, allPages)
	}
}

func renderTagsTable(tags []fizzy.Tag, hasNext, allPages bool) error {
	if len(tags) == 0 {
		_, _ = os.Stdout.WriteString("No tags found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Title")

	for _, tag := range tags {
		_ = table.Append(fmt.Sprintf("%d", tag.ID), tag.Title)
	}

	_ = table.Render()

	printPageHint(hasNext, allPages)

	return nil
}

func newTagsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add CARD_NUMBER TAG",
		Short: "Tag a card",
		Long:  "Attach a tag to a card, creating the tag on first use",
		Args:  cobra.ExactArgs(2),
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

			tag, err := apiClient.Tags().Tag(ctx, number, args[1])
			if err != nil {
				return fmt.Errorf("tagging card: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Tagged card #%d with '%s'\n", number, tag.Title)

			return nil
		},
	}
}

func newTagsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove CARD_NUMBER TAG",
		Short: "Untag a card",
		Long:  "Remove a tag from a card",
		Args:  cobra.ExactArgs(2),
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

			err = apiClient.Tags().Untag(ctx, number, args[1])
			if err != nil {
				return fmt.Errorf("untagging card: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Removed '%s' from card #%d\n", args[1], number)

			return nil
		},
	}
}
