// booking-sweeper runs the orphan booking sweep either once or on an
// interval, against the same catalog data API as the main service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/eduflow/course-booking/internal/store"
	"github.com/eduflow/course-booking/internal/worker"
	"github.com/eduflow/course-booking/pkg/config"
	"github.com/eduflow/course-booking/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: "booking-sweeper",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLog := logger.Get()

	client, err := store.NewClient(&store.ClientConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		Timeout:           cfg.Catalog.Timeout,
		MaxRetries:        cfg.Catalog.MaxRetries,
		OptimisticLocking: cfg.Catalog.OptimisticLocking,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Invalid catalog client config: %v", err))
	}

	sweeper := worker.NewSweeper(
		store.NewRESTCourseStore(client),
		store.NewRESTBookingStore(client),
		worker.SweeperConfig{Interval: cfg.Sweeper.Interval},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		removed, err := sweeper.Sweep(ctx)
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Sweep failed: %v", err))
		}
		appLog.Info(fmt.Sprintf("Sweep complete, removed %d orphaned bookings", removed))
		return
	}

	go sweeper.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()
	appLog.Info("Sweeper exited")
}
