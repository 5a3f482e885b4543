package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mrlokans/shayfa/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: failed to load .env: %v", err)
	}

	if err := cli.NewRootCommand(Version + " (" + Commit + ")").Execute(); err != nil {
		os.Exit(1)
	}
}
