package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chess10kp/buttonlauncher/internal/core"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the launcher daemon",
	Long: `Loads the buttons file, reloads it whenever it changes on disk and
accepts commands on the control socket (see launcherclient).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}

		logger := openLogger(cfg)
		defer logger.Close()
		log.SetFlags(0)
		log.SetOutput(logger.StdWriter())

		pidFile := cfg.PidPath()
		if err := ensureSingleInstance(pidFile); err != nil {
			return fmt.Errorf("failed to ensure single instance: %w", err)
		}
		defer os.Remove(pidFile)

		store, err := openHistory(cfg)
		if err != nil {
			logger.Error("failed to open activation history", err)
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

		app, err := core.NewApp(core.Options{
			Config:     cfg,
			Logger:     logger,
			Dispatcher: dispatcher,
			History:    store,
			Prompt:     p,
		})
		if err != nil {
			return err
		}

		ipc := core.NewIPCServer(app, cfg.SocketPath, logger)
		if err := ipc.Start(); err != nil {
			logger.Error("failed to start control socket", err)
		} else {
			defer ipc.Stop()
		}

		return app.Run(cmd.Context())
	},
}

// ensureSingleInstance replaces a previously started daemon and records the
// current pid.
func ensureSingleInstance(pidFile string) error {
	if data, err := os.ReadFile(pidFile); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && pid != os.Getpid() {
			if process, err := os.FindProcess(pid); err == nil {
				if err := process.Signal(syscall.Signal(0)); err == nil {
					log.Printf("[MAIN] stopping previous instance %d", pid)
					process.Signal(syscall.SIGTERM)
				}
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(pidFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0600)
}

func init() {
	rootCmd.AddCommand(runCmd)
}
