package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bloom-wellness/bloom/internal/daemon"
)

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip confirmation")
	rootCmd.AddCommand(resetCmd)
}

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all achievement progress",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetForce {
		fmt.Print("This erases all achievement progress. Continue? [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	d.Engine.ResetProgress(context.Background())
	fmt.Println("Achievement progress erased.")
	return nil
}
