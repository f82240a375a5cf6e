package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/editor"
)

// Button field flags shared by add and edit.
type entryFlags struct {
	label    string
	action   string
	target   string
	confirm  bool
	admin    bool
	disabled bool
}

func (f *entryFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.label, "label", "", "button label")
	fs.StringVar(&f.action, "action", "", "action type: open_explorer, run_exe_bat, run_ps1, copy_clipboard, open_url_firefox")
	fs.StringVar(&f.target, "target", "", "path, program, text or URL the action uses")
	fs.BoolVar(&f.confirm, "confirm", false, "ask for confirmation before running")
	fs.BoolVar(&f.admin, "admin", false, "run with elevated privileges")
	fs.BoolVar(&f.disabled, "disabled", false, "show the button but do not allow activation")
}

// apply copies only the flags the user set onto e.
func (f *entryFlags) apply(fs *pflag.FlagSet, e *buttons.Entry) {
	if fs.Changed("label") {
		e.Label = f.label
	}
	if fs.Changed("action") {
		e.ActionType = f.action
	}
	if fs.Changed("target") {
		e.Target = f.target
	}
	if fs.Changed("confirm") {
		e.Confirm = buttons.ConfirmNone
		if f.confirm {
			e.Confirm = buttons.ConfirmYesNo
		}
	}
	if fs.Changed("admin") {
		e.RunAsAdmin = f.admin
	}
	if fs.Changed("disabled") {
		e.Enabled = !f.disabled
	}
}

func checkActionTag(tag string) error {
	if tag != "" && !buttons.IsKnownTag(tag) {
		return fmt.Errorf("unknown action type '%s'", tag)
	}
	return nil
}

// openSession starts an editor session on the configured buttons file.
func openSession() (*editor.Session, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return editor.Open(cfg.ButtonsPath)
}

var (
	addFlags  entryFlags
	editFlags entryFlags
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a button",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkActionTag(addFlags.action); err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}

		entry := s.Add()
		if err := s.Update(entry.ID, func(e *buttons.Entry) { addFlags.apply(cmd.Flags(), e) }); err != nil {
			return err
		}
		if err := s.Commit(); err != nil {
			return err
		}
		info("Added button %s", entry.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a button",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkActionTag(editFlags.action); err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.Update(args[0], func(e *buttons.Entry) { editFlags.apply(cmd.Flags(), e) }); err != nil {
			return err
		}
		if !s.Dirty() {
			info("Nothing to change.")
			return nil
		}
		if err := s.Commit(); err != nil {
			return err
		}
		info("Updated button %s", args[0])
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a button",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.Remove(args[0]); err != nil {
			return err
		}
		if err := s.Commit(); err != nil {
			return err
		}
		info("Removed button %s", args[0])
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <index>",
	Short: "Move a button to a new position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index '%s'", args[1])
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.Move(args[0], index); err != nil {
			return err
		}
		return s.Commit()
	},
}

var (
	metaVersion string
	metaColumns string
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show or change the configuration version and grid columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		changed := false
		if cmd.Flags().Changed("version") {
			s.SetVersion(metaVersion)
			changed = true
		}
		if cmd.Flags().Changed("columns") {
			s.SetGridColumns(metaColumns)
			changed = true
		}

		if changed {
			if err := s.Commit(); err != nil {
				return err
			}
		}
		info("version: %s", s.VersionText())
		info("grid columns: %s", s.GridColumnsText())
		return nil
	},
}

func init() {
	addFlags.register(addCmd.Flags())
	editFlags.register(editCmd.Flags())

	metaCmd.Flags().StringVar(&metaVersion, "version", "", "configuration version text")
	metaCmd.Flags().StringVar(&metaColumns, "columns", "", "number of grid columns (> 0)")

	rootCmd.AddCommand(addCmd, editCmd, removeCmd, moveCmd, metaCmd)
}
