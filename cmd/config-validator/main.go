package main

import (
	"fmt"
	"os"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/config"
)

func main() {
	configPath := config.DefaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	fmt.Printf("Validating settings: %s\n", configPath)

	cfg, err := config.LoadAndValidateConfig(configPath)
	if err != nil {
		fmt.Printf("❌ Settings validation failed: %v\n", err)
		os.Exit(1)
	}

	buttonsPath := cfg.ButtonsPath
	if len(os.Args) > 2 {
		buttonsPath = config.ExpandPath(os.Args[2])
	}
	fmt.Printf("Validating buttons: %s\n", buttonsPath)

	b, err := buttons.Load(buttonsPath)
	if err == nil {
		err = buttons.Validate(b, cfg.Strict)
	}
	if err != nil {
		fmt.Printf("❌ Buttons validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Config is valid! (%d buttons)\n", b.Len())
}
