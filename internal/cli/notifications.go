package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bloom-wellness/bloom/internal/daemon"
)

func init() {
	notificationsCmd.AddCommand(notificationsShownCmd)
	rootCmd.AddCommand(notificationsCmd)
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "List pending notifications",
	RunE:    runNotifications,
}

func runNotifications(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	pending, err := d.Notify.Pending(context.Background(), 20)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No pending notifications.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCREATED")
	for _, n := range pending {
		fmt.Fprintf(w, "%d\t%s\t%s\n", n.ID, n.Title, n.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

var notificationsShownCmd = &cobra.Command{
	Use:   "shown <id>",
	Short: "Mark a notification as shown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid notification id %q", args[0])
		}

		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		return d.Notify.MarkShown(context.Background(), id)
	},
}
