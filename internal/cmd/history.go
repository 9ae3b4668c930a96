package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Digital-Shane/show-onboard/internal/log"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently added and skipped shows",
	Long: `List the shows added or skipped in recent wizard sessions, newest first.
Sessions are kept for log_retention_days.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := log.ReadSessions(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read session logs: %w", err)
		}
		printHistory(cmd.OutOrStdout(), sessions)
		return nil
	},
}

func printHistory(w io.Writer, sessions []*log.LogSession) {
	printed := 0
	for _, session := range sessions {
		for _, op := range session.Operations {
			if op.Type == log.OpSearch {
				continue
			}
			printed++

			status := "ok"
			if !op.Success {
				status = "failed: " + op.Error
			}
			show := op.Show
			if show == "" {
				show = "??"
			}
			switch op.Type {
			case log.OpSkip:
				fmt.Fprintf(w, "%s  skipped %s (%s)\n", op.Timestamp.Format("2006-01-02 15:04"), show, status)
			default:
				fmt.Fprintf(w, "%s  added %s into %s (%s)\n", op.Timestamp.Format("2006-01-02 15:04"), show, op.Destination, status)
			}
		}
	}
	if printed == 0 {
		fmt.Fprintln(w, "No shows added yet.")
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of sessions to read (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
