package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.com/they4kman/gomaze/game"
	"text/tabwriter"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List best times",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := gameConfig.OpenStore()
		if err != nil {
			return err
		}

		records := game.LoadBestTimes(store).Records()
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No best times yet.")
			return nil
		}

		table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(table, "DIFFICULTY\tLEVEL\tBEST")
		for _, record := range records {
			fmt.Fprintf(table, "%s\t%d\t%s\n", record.Difficulty.Title(), record.Level, game.FormatTime(record.Time))
		}
		return table.Flush()
	},
}
