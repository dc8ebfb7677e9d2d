package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrStepContentRequired is returned when a step command lacks content.
var ErrStepContentRequired = errors.New("step content is required")

// NewStepsCommand creates the steps command group.
func NewStepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "steps",
		Aliases: []string{"step"},
		Short:   "Manage card checklist steps",
		Long:    "List, add, toggle, and delete the checklist steps of a card",
	}

	cmd.AddCommand(newStepsListCommand())
	cmd.AddCommand(newStepsAddCommand())
	cmd.AddCommand(newStepsToggleCommand())
	cmd.AddCommand(newStepsDeleteCommand())

	return cmd
}

func newStepsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list CARD_NUMBER",
		Short: "List steps",
		Long:  "List the checklist steps of a card",
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

			steps, err := apiClient.Steps().List(ctx, number)
			if err != nil {
				return fmt.Errorf("listing steps: %w", err)
			}

			return outputSteps(steps)
		},
	}
}

func outputSteps(steps []fizzy.Step) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(steps)
	case OutputFormatYAML:
		return StandardYAMLRenderer(steps)
	default:
		return renderStepsTable(steps)
	}
}

func renderStepsTable(steps []fizzy.Step) error {
	if len(steps) == 0 {
		_, _ = os.Stdout.WriteString("No steps found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Done", "Step")

	for _, step := range steps {
		done := " "
		if step.Completed {
			done = "x"
		}

		_ = table.Append(fmt.Sprintf("%d", step.ID), done, step.Content)
	}

	_ = table.Render()

	return nil
}

func newStepsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add CARD_NUMBER CONTENT",
		Short: "Add a step",
		Long:  "Add a checklist step to a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseCardNumber(args[0])
			if err != nil {
				return err
			}

			if args[1] == "" {
				return ErrStepContentRequired
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			step, err := apiClient.Steps().Create(ctx, number, args[1])
			if err != nil {
				return fmt.Errorf("adding step: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Added step %d to card #%d\n", step.ID, number)

			return nil
		},
	}
}

func newStepsToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle CARD_NUMBER STEP_ID",
		Short: "Toggle a step",
		Long:  "Flip a checklist step between done and not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseCardNumber(args[0])
			if err != nil {
				return err
			}

			stepID, err := parseResourceID(args[1])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			step, err := apiClient.Steps().Toggle(ctx, number, stepID)
			if err != nil {
				return fmt.Errorf("toggling step: %w", err)
			}

			state := "not done"
			if step.Completed {
				state = "done"
			}

			_, _ = fmt.Fprintf(os.Stdout, "Step %d is now %s\n", step.ID, state)

			return nil
		},
	}
}

func newStepsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete CARD_NUMBER STEP_ID",
		Short: "Delete a step",
		Long:  "Remove a checklist step from a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseCardNumber(args[0])
			if err != nil {
				return err
			}

			stepID, err := parseResourceID(args[1])
			if err != nil {
				return err
			}

			apiClient, err := requireAccountClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if !confirmAction(force, fmt.Sprintf("Really delete step %d?", stepID)) {
				return nil
			}

			err = apiClient.Steps().Delete(ctx, number, stepID)
			if err != nil {
				return fmt.Errorf("deleting step: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted step %d\n", stepID)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
