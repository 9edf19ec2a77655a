package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bazaarhq/marketplace/internal/config"
	"github.com/bazaarhq/marketplace/internal/messaging"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/service"
	_ "github.com/lib/pq"
)

func main() {
	log.Println("🚀 Notification Worker starting...")

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Database open error: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Database ping error: %v", err)
	}
	log.Printf("✅ Database connected: %s", cfg.Database.Name)

	rabbitClient := messaging.NewRabbitMQClient(cfg.AMQP)
	if err := rabbitClient.Connect(); err != nil {
		log.Fatalf("RabbitMQ connection error: %v", err)
	}
	defer rabbitClient.Close()

	notifications := repository.NewPostgresNotifications(db)
	notificationService := service.NewNotificationService(notifications, service.LogSender{})

	consumer := messaging.NewConsumer(rabbitClient, "notification-worker-queue", "notification-worker")
	err = consumer.Consume([]string{"notification.*"}, func(event messaging.NotificationEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return notificationService.Process(ctx, event)
	})
	if err != nil {
		log.Fatalf("Consumer start error: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Notification Worker closing...")
}
