package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/di"
	"github.com/mikey/portfolio-backend/internal/factory"
	"github.com/mikey/portfolio-backend/internal/ports"
	"go.uber.org/zap"
)

var configFile = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	// Build the dependency injection container
	container, err := di.BuildContainer(*configFile)
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
	servers []ports.Server,
	classifier core.CategoryClassifier,
	cacheRepo core.CacheRepository,
	store factory.DocumentStore,
) error {
	defer logger.Sync()

	started := make([]ports.Server, 0, len(servers))
	for _, srv := range servers {
		if err := srv.Start(); err != nil {
			logger.Error("Failed to start server", zap.String("server", srv.Name()), zap.Error(err))
			stopAll(logger, started)
			return err
		}
		started = append(started, srv)
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("Shutting down...", zap.String("signal", sig.String()))

	stopAll(logger, started)

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close category classifier", zap.Error(err))
		}
	}

	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if closer, ok := store.(interface{ Close(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := closer.Close(ctx); err != nil {
			logger.Error("Failed to close message store", zap.Error(err))
		}
		cancel()
	}

	logger.Info("Shutdown complete")
	return nil
}

// stopAll stops servers in reverse start order
func stopAll(logger *zap.Logger, servers []ports.Server) {
	for i := len(servers) - 1; i >= 0; i-- {
		if err := servers[i].Stop(); err != nil {
			logger.Error("Failed to stop server", zap.String("server", servers[i].Name()), zap.Error(err))
		}
	}
}
