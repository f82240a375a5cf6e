package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyOutput string
	historyClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent button activations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("activation history is disabled in the settings")
		}
		defer store.Close()

		if historyClear {
			if err := store.Clear(); err != nil {
				return err
			}
			info("History cleared.")
			return nil
		}

		records, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}
		if historyOutput != "text" {
			return writeStructured(os.Stdout, historyOutput, records)
		}
		if len(records) == 0 {
			info("No activations recorded.")
			return nil
		}

		fmt.Printf("%-19s %-16s %-10s %6s %s\n", "TIME", "LABEL", "STATUS", "MS", "ERROR")
		for _, r := range records {
			fmt.Printf("%-19s %-16s %-10s %6d %s\n", r.Timestamp.Format("2006-01-02 15:04:05"), r.Label, r.Status, r.DurationMs, r.Error)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of activations to show")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "text", "output format: text, json or yaml")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all recorded activations")
	rootCmd.AddCommand(historyCmd)
}
