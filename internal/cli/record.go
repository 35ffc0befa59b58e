package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bloom-wellness/bloom/internal/daemon"
	"github.com/bloom-wellness/bloom/internal/domain"
)

func init() {
	recordCmd.Flags().BoolVar(&recordAbsolute, "absolute", false,
		"Treat the amount as the counter's new total instead of an increment")
	rootCmd.AddCommand(recordCmd)
}

var recordAbsolute bool

var recordCmd = &cobra.Command{
	Use:   "record <activity> [amount]",
	Short: "Record an activity signal",
	Long: `Record an activity signal and evaluate achievements.

Activities: mood_entries, meditation_sessions, meditation_minutes,
journal_entries, breathing_sessions, sleep_logs, shares, streak_days,
morning_checkins, night_checkins.

Examples:
  bloom record mood_entries
  bloom record meditation_minutes 15
  bloom record streak_days 7 --absolute`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	amount := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		amount = n
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()

	var newly []domain.AchievementDef
	if recordAbsolute {
		newly = d.Engine.SetProgress(ctx, args[0], amount)
	} else {
		newly = d.Engine.IncrementProgress(ctx, args[0], amount)
	}
	newly = append(newly, d.Engine.CheckTotalEarned(ctx)...)

	if len(newly) == 0 {
		fmt.Println("Recorded.")
		return nil
	}
	for _, def := range newly {
		fmt.Printf("%s  Achievement unlocked: %s — %s\n", def.Icon, def.Title, def.Description)
	}
	return nil
}
