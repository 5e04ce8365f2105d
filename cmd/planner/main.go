package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/config"
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/logger"
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/service"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Init logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "planner")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Create service
	planningService, err := service.NewPlanningService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create planning service",
			zap.Error(err),
		)
	}
	defer planningService.Stop()

	// 4. Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Start the validation scan loop
	serviceErrChan := make(chan error, 1)
	go func() {
		if err := planningService.Start(ctx); err != nil {
			serviceErrChan <- err
		}
	}()

	// 6. Wait for a signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
		cancel()
	case err := <-serviceErrChan:
		log.Fatal("Service error",
			zap.Error(err),
		)
	}

	log.Info("Planner service stopped")
}
