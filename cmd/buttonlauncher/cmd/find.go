package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chess10kp/buttonlauncher/internal/history"
	"github.com/chess10kp/buttonlauncher/internal/search"
)

var (
	findOutput string
	findLimit  int
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search buttons by label",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		b, err := loadButtons(cfg)
		if err != nil {
			return err
		}

		limit := findLimit
		if limit <= 0 {
			limit = cfg.Search.MaxResults
		}
		var boost map[string]float64
		if store, err := openHistory(cfg); err == nil && store != nil {
			boost, _ = store.Frecency(history.DefaultHalfLife)
			store.Close()
		}
		matches := search.FindBoosted(strings.Join(args, " "), b.Buttons, limit, boost)

		if findOutput != "text" {
			return writeStructured(os.Stdout, findOutput, matches)
		}
		if len(matches) == 0 {
			info("No matching buttons.")
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%-4d %-34s %s\n", m.Index, m.Entry.ID, m.Entry.Label)
		}
		return nil
	},
}

func init() {
	findCmd.Flags().StringVarP(&findOutput, "output", "o", "text", "output format: text, json or yaml")
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 0, "maximum number of results (default from settings)")
	rootCmd.AddCommand(findCmd)
}
