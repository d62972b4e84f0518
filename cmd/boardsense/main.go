package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/boardsense/internal/adapters/driving/cli"
	"github.com/custodia-labs/boardsense/internal/logger"
)

func main() {
	// Optional .env for local development; named env vars win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("loading .env: %v", err)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
