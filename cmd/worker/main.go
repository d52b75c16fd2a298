package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/email"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	metrics.Register()

	topic := cfg.Kafka.NotificationsTopic
	if topic == "" {
		topic = cfg.Kafka.BookingEventsTopic
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender, err := email.NewSender(cfg.SMTP)
	if err != nil {
		logrus.Fatalf("init email sender: %v", err)
	}

	consumer := kafka.NewEventConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
	defer consumer.Close()

	logrus.WithFields(logrus.Fields{"topic": topic, "group": cfg.Kafka.GroupID}).Info("notification worker started")

	// Offsets are committed on read, so a failed email is logged rather than
	// stopping the group.
	notify := func(ctx context.Context, event kafka.BookingEvent) error {
		if err := sender.Send(ctx, event); err != nil {
			logrus.WithFields(logrus.Fields{
				"booking_id": event.BookingID,
				"event":      event.Type,
			}).WithError(err).Error("booking notification failed")
		}
		return nil
	}

	if err := consumer.Consume(ctx, notify); err != nil && !errors.Is(err, context.Canceled) {
		logrus.Fatalf("consumer stopped: %v", err)
	}
	logrus.Info("notification worker stopped")
}
