package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kilianp07/farecast/cmd"
)

func main() {
	// Optional .env file for local development; ignored when absent.
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
