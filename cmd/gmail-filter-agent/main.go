package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/mikey/gmail-filter-agent/internal/di"
	"github.com/mikey/gmail-filter-agent/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	surface ports.AgentSurface,
	agentClient core.AgentClient,
	emailCache core.EmailCache,
) error {
	defer logger.Sync()

	// Start the interactive surface
	if err := surface.Start(); err != nil {
		logger.Fatal("Failed to start agent surface", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Shutting down...")
	case <-surface.Done():
		logger.Info("Session ended")
	}

	// Stop the surface
	if err := surface.Stop(); err != nil {
		logger.Error("Failed to stop agent surface", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := agentClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close agent client", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := emailCache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
