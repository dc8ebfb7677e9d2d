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

// NewNotificationsCommand creates the notifications command group.
func NewNotificationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification", "inbox"},
		Short:   "Manage notifications",
		Long:    "List notifications and mark them as read",
	}

	cmd.AddCommand(newNotificationsListCommand())
	cmd.AddCommand(newNotificationsReadCommand())
	cmd.AddCommand(newNotificationsReadAllCommand())

	return cmd
}

func newNotificationsListCommand() *cobra.Command {
	var (
		allPages   bool
		unreadOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Long:  "List the authenticated user's notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var (
				notifications []fizzy.Notification
				hasNext       bool
			)

			if allPages {
				notifications, err = apiClient.Notifications().ListAll(ctx, unreadOnly, 0)
			} else {
				page, pageErr := apiClient.Notifications().List(ctx, unreadOnly)
				if pageErr == nil {
					notifications = page.Items
					hasNext = page.HasNext
				}

				err = pageErr
			}

			if err != nil {
				return fmt.Errorf("listing notifications: %w", err)
			}

			return outputNotifications(notifications, hasNext, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "show unread notifications only")

	return cmd
}

func outputNotifications(notifications []fizzy.Notification, hasNext, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(notifications)
	case OutputFormatYAML:
		return StandardYAMLRenderer(notifications)
	default:
		return renderNotificationsTable(notifications, hasNext, allPages)
	}
}

func renderNotificationsTable(notifications []fizzy.Notification, hasNext, allPages bool) error {
	if len(notifications) == 0 {
		_, _ = os.Stdout.WriteString("No notifications\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "", "When", "Notification")

	for _, notification := range notifications {
		unread := "*"
		if notification.Read {
			unread = " "
		}

		_ = table.Append(fmt.Sprintf("%d", notification.ID), unread,
			notification.CreatedAt.Format("2006-01-02 15:04"), notification.Title)
	}

	_ = table.Render()

	printPageHint(hasNext, allPages)

	return nil
}

func newNotificationsReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read NOTIFICATION_ID",
		Short: "Mark a notification read",
		Long:  "Mark a single notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notificationID, err := parseResourceID(args[0])
			if err != nil {
				return err
			}

			apiClient, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = apiClient.Notifications().MarkRead(ctx, notificationID)
			if err != nil {
				return fmt.Errorf("marking notification read: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Marked notification %d as read\n", notificationID)

			return nil
		},
	}
}

func newNotificationsReadAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark all notifications read",
		Long:  "Mark every notification as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = apiClient.Notifications().MarkAllRead(ctx)
			if err != nil {
				return fmt.Errorf("marking notifications read: %w", err)
			}

			_, _ = os.Stdout.WriteString("Marked all notifications as read\n")

			return nil
		},
	}
}
