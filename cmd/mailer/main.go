package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kartrm/internal/notifications/mailer"
	"kartrm/pkg/config"
	"kartrm/pkg/kafka"
)

const (
	ServiceName     = "kartrm-mailer"
	consumerGroupID = "kartrm-mailer"
)

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting KartRM mailer")

	handler := mailer.NewHandler(&mailer.LogSender{Log: cfg.Log}, cfg.Log)

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.VoucherTopic, consumerGroupID, handler.Handle)
	if err != nil {
		cfg.Log.Fatal("Failed to create voucher consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	cfg.Log.Info("Mailer stopped")
}
