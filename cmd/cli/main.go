package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chepeat/chepeat/internal/client/cli"
	"github.com/chepeat/chepeat/internal/client/config"
	"github.com/chepeat/chepeat/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
