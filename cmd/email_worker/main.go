package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/config"
	"github.com/oksasatya/bienesraices/pkg/helpers"
	"github.com/oksasatya/bienesraices/pkg/mailer"
)

const sendTimeout = 15 * time.Second

// errMalformed marks jobs that can never succeed and must not be requeued.
var errMalformed = errors.New("malformed email job")

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	sender, err := mailer.NewSender(cfg.MailDriver, mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, mg, logger)
	if err != nil {
		log.Fatalf("mail transport: %v", err)
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			settle(msg, handle(ctx, sender, msg.Body), logger)
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle decodes one queued job and delivers it.
func handle(ctx context.Context, s mailer.Sender, body []byte) error {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	return mailer.Deliver(c, s, job)
}

// settle acks delivered jobs, drops malformed ones and requeues a failed
// send once.
func settle(msg amqp.Delivery, err error, logger *logrus.Logger) {
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, errMalformed):
		logger.WithError(err).Warn("dropping email job")
		_ = msg.Nack(false, false)
	default:
		logger.WithError(err).WithField("redelivered", msg.Redelivered).Error("send failed")
		_ = msg.Nack(false, !msg.Redelivered)
	}
}
