package main

import (
	"fmt"
	"os"

	cli "github.com/neboloop/devtools-mcp/cmd/devtools-mcp"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	if err := cli.SetupRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
