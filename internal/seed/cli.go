package seed

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/alramalho/self-tracking-software-sub007/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Tracking Insights Seed Tool
===========================

Seeds the tracking insights service with synthetic users whose activity and
rating histories carry planted signals, then reads back correlations and
streaks to verify the pipeline end to end.

Usage:
  go run cmd/seed-data/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -users int
        Number of synthetic users to create (default 5)
  -days int
        Length of the generated timeline in days (default 70)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -wait duration
        Wait for async ingestion before verifying (default 5s)
  -log string
        Log file for seed output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-data/main.go

  # Seed with custom parameters
  go run cmd/seed-data/main.go -users 20 -days 120 -url http://localhost:9090

  # Seed with verbose output showing every user's insights
  go run cmd/seed-data/main.go -verbose
`)
}
