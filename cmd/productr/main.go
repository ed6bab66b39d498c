package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/productrhq/productr/internal/client/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
