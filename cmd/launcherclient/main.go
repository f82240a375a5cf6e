package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chess10kp/buttonlauncher/internal/config"
	"github.com/chess10kp/buttonlauncher/internal/core"
)

var (
	socketPath = config.DefaultConfig.SocketPath
)

func init() {
	// Prefer the socket path from the settings file
	cfg, err := config.LoadConfig(config.DefaultConfigPath)
	if err == nil && cfg.SocketPath != "" {
		socketPath = cfg.SocketPath
	}
	if env := os.Getenv("BUTTONLAUNCHER_SOCKET"); env != "" {
		socketPath = env
	}
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "activate", "find":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
	}

	message := strings.Join(os.Args[1:], " ")

	// Activation may wait on a confirmation dialog.
	timeout := 5 * time.Second
	if command == "activate" {
		timeout = 0
	}

	reply, err := core.Send(socketPath, message, timeout)
	if err != nil {
		log.Fatalf("%v\nIs buttonlauncher running?", err)
	}

	fmt.Println(reply)
	if strings.HasPrefix(reply, "error:") || strings.HasPrefix(reply, "failed") {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("launcherclient - Control a running buttonlauncher")
	fmt.Println()
	fmt.Println("Usage: launcherclient <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list              List the loaded buttons")
	fmt.Println("  activate <id>     Run a button's action")
	fmt.Println("  find <query>      Search buttons by label")
	fmt.Println("  reload            Re-read the buttons file")
	fmt.Println("  status            Show daemon status")
	fmt.Println("  history [n]       Show recent activations")
	fmt.Println("  quit              Stop the daemon")
	fmt.Println("  help              Show this help message")
	fmt.Println()
	fmt.Println("Socket path:", socketPath)
}
