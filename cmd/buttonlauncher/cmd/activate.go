package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/dispatch"
)

var (
	activateDryRun  bool
	activateByIndex bool
)

var activateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Run the action of one button",
	Long: `Runs the action bound to the first button with the given id. With
--index the argument is the button's position instead. --dry-run prints the
planned effect without running it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		b, err := loadButtons(cfg)
		if err != nil {
			return err
		}

		entry, err := selectEntry(b, args[0], activateByIndex)
		if err != nil {
			return err
		}

		if activateDryRun {
			effect, err := dispatch.Plan(entry, dispatch.EnvFromConfig(cfg.Dispatch))
			if err != nil {
				return err
			}
			data, err := effect.ToJSON()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		logger := openLogger(cfg)
		defer logger.Close()

		store, err := openHistory(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: activation history unavailable: %v\n", err)
			store = nil
		}
		if store != nil {
			defer store.Close()
		}

		dispatcher, p, err := newDispatcher(cfg, logger, store)
		if err != nil {
			return err
		}
		defer p.Close()

		outcome := dispatcher.Dispatch(entry)
		switch outcome.Status {
		case dispatch.StatusCancelled:
			info("Cancelled.")
		case dispatch.StatusFailed:
			return outcome.Err
		}
		return nil
	},
}

func selectEntry(b *buttons.Configuration, arg string, byIndex bool) (buttons.Entry, error) {
	if byIndex {
		i, err := strconv.Atoi(arg)
		if err != nil || i < 0 || i >= len(b.Buttons) {
			return buttons.Entry{}, fmt.Errorf("button index %s out of range (have %d)", arg, len(b.Buttons))
		}
		return b.Buttons[i], nil
	}
	entry, _, ok := b.Find(arg)
	if !ok {
		return buttons.Entry{}, &buttons.UnknownButtonError{ID: arg}
	}
	return entry, nil
}

func init() {
	activateCmd.Flags().BoolVar(&activateDryRun, "dry-run", false, "print the planned effect instead of running it")
	activateCmd.Flags().BoolVar(&activateByIndex, "index", false, "treat the argument as a position in the list")
	rootCmd.AddCommand(activateCmd)
}
