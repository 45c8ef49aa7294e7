package main

import (
	"fmt"
	"os"

	"github.com/Uday9909/ExplainMyRepo/internal/adapters/osfs"
	"github.com/Uday9909/ExplainMyRepo/internal/adapters/sysclipboard"
	"github.com/Uday9909/ExplainMyRepo/internal/adapters/tuisvc"
	"github.com/Uday9909/ExplainMyRepo/internal/cli"
	"github.com/Uday9909/ExplainMyRepo/internal/config"
	"github.com/Uday9909/ExplainMyRepo/internal/ingest"
	"github.com/Uday9909/ExplainMyRepo/internal/logging"
	"github.com/Uday9909/ExplainMyRepo/internal/session"
	"github.com/Uday9909/ExplainMyRepo/internal/tui"
)

// version is set via ldflags at build time: -ldflags "-X main.version=x.y.z"
var version = "dev"

func main() {
	// Handle TUI mode (no args or ui/tui command)
	if len(os.Args) < 2 || os.Args[1] == "ui" || os.Args[1] == "tui" {
		if err := runTUI(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Use CLI for all other commands
	c := cli.New(version)
	c.Run()
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Terminal output belongs to the TUI, so logs go to a file
	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	log, closer := logging.New(logging.ToFile(cfg.Logging, logPath))
	defer closer.Close()

	outputDir, err := config.ExpandPath(cfg.OutputDir)
	if err != nil {
		return err
	}

	state := session.New()
	svc, err := ingest.NewFromConfig(cfg, state, nil, log)
	if err != nil {
		return err
	}

	return tui.Run(tuisvc.New(svc, state, sysclipboard.New(), osfs.New(), outputDir), state)
}
