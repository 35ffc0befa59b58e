package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bloom-wellness/bloom/internal/daemon"
	"github.com/bloom-wellness/bloom/internal/domain"
)

func init() {
	badgesCmd.Flags().BoolVar(&badgesEarnedOnly, "earned", false, "Show earned badges only")
	badgesCmd.Flags().StringVar(&badgesCategory, "category", "", "Filter by category (mood, meditation, ...)")
	rootCmd.AddCommand(badgesCmd)
}

var (
	badgesEarnedOnly bool
	badgesCategory   string
)

var badgesCmd = &cobra.Command{
	Use:     "badges",
	Aliases: []string{"achievements"},
	Short:   "List achievements and progress",
	RunE:    runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	statuses := d.Engine.AllWithProgress(ctx)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tBADGE\tRARITY\tPROGRESS\tEARNED")
	shown := 0
	for _, st := range statuses {
		if badgesEarnedOnly && !st.Progress.Earned {
			continue
		}
		if badgesCategory != "" && st.Definition.Category != domain.Category(badgesCategory) {
			continue
		}
		shown++

		mark := " "
		earnedAt := "-"
		if st.Progress.Earned {
			mark = "*"
			earnedAt = st.Progress.EarnedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%d/%d (%.0f%%)\t%s\n",
			mark,
			st.Definition.Icon, st.Definition.Title,
			st.Definition.Rarity,
			st.Progress.CurrentValue, st.Definition.Requirement, st.Pct(),
			earnedAt,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if shown == 0 {
		fmt.Println("No badges match. Run 'bloom record <activity>' to get started.")
		return nil
	}
	fmt.Printf("\n%d of %d earned\n", d.Engine.EarnedCount(ctx), d.Engine.Catalog().Len())
	return nil
}
