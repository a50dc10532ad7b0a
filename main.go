package main

import (
	"github.com/joho/godotenv"

	"indiamart-etl/cmd"
	"indiamart-etl/logger"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	cmd.Execute()
}
