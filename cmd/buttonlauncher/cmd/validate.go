package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the settings and buttons files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		info("Settings OK: %s", settingsPath)

		b, err := buttons.Load(cfg.ButtonsPath)
		if err != nil {
			return err
		}
		if err := buttons.Validate(b, validateStrict || cfg.Strict); err != nil {
			return err
		}

		info("Buttons OK: %s (%d buttons, version %s, %d columns)", cfg.ButtonsPath, b.Len(), b.Meta.Version, b.Meta.GridColumns)
		if b.Dropped > 0 {
			info("warning: %d entries without a label are ignored", b.Dropped)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "also reject unknown action types, confirm modes and duplicate ids")
	rootCmd.AddCommand(validateCmd)
}
