package main

import (
	"fmt"
	"os"

	"github.com/neuroplay/neuroplay/internal/config"
	"github.com/neuroplay/neuroplay/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("neuroplay %s (%s)\n", Version, Commit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`NeuroPlay backend - therapy mini-game progress tracking

Usage:
  neuroplay [serve]    Start the HTTP server (default)
  neuroplay version    Print version information
  neuroplay help       Show this help`)
}
