package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/alramalho/self-tracking-software-sub007/internal/seed"
)

// Default configuration constants.
const (
	defaultNumUsers    = 5
	defaultDays        = 70
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultWait        = 5 * time.Second
	defaultSeedTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numUsers = flag.Int("users", defaultNumUsers, "Number of synthetic users to create")
		days     = flag.Int("days", defaultDays, "Length of the generated timeline in days")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait     = flag.Duration("wait", defaultWait, "Wait for async ingestion before verifying")
		logFile  = flag.String("log", "", "Log file for seed output (default: seed_log_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	// Setup logging
	if err := seed.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	// Create seed configuration
	config := &seed.Config{
		BaseURL:  *baseURL,
		NumUsers: *numUsers,
		Days:     *days,
		Workers:  *workers,
		Timeout:  *timeout,
		Wait:     *wait,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	// Run the seed
	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}
