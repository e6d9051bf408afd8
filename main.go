package main

import (
	"github.com/joho/godotenv"

	"github.com/beifong-dev/studio/internal/cli"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cli.Execute()
}
