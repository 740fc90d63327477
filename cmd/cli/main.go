package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vmplane/vmplane/cmd/cli/commands"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
