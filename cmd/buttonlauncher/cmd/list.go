package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured buttons",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		b, err := loadButtons(cfg)
		if err != nil {
			return err
		}

		if listOutput != "text" {
			return writeStructured(os.Stdout, listOutput, b)
		}

		if b.IsEmpty() {
			info("No buttons found in configuration.")
			return nil
		}

		info("version %s, %d columns", b.Meta.Version, b.Meta.GridColumns)
		fmt.Printf("%-4s %-34s %-16s %-16s %-8s %s\n", "#", "ID", "LABEL", "ACTION", "CONFIRM", "TARGET")
		for i, e := range b.Buttons {
			label := e.DisplayLabel()
			if !e.Enabled {
				label += " (off)"
			}
			confirm := "-"
			if e.RequiresConfirmation() {
				confirm = "yes"
			}
			action := e.Kind().Tag()
			if e.RunAsAdmin {
				action += "*"
			}
			fmt.Printf("%-4d %-34s %-16s %-16s %-8s %s\n", i, e.ID, label, action, confirm, e.Target)
		}
		if b.Dropped > 0 {
			info("%d entries without a label were skipped", b.Dropped)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(listCmd)
}
