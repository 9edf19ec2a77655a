package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

type Publisher struct {
	client *RabbitMQClient
}

func NewPublisher(client *RabbitMQClient) *Publisher {
	return &Publisher{client: client}
}

// Publish sends a notification event to the topic exchange with the
// routing key notification.<event type>.
func (p *Publisher) Publish(event NotificationEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event serialization: %w", err)
	}

	routingKey := fmt.Sprintf("notification.%s", event.EventType)

	err = p.client.Channel().Publish(
		p.client.config.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.Timestamp,
			Headers: amqp.Table{
				"order_id":   event.OrderID.String(),
				"user_id":    event.UserID.String(),
				"event_type": string(event.EventType),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("event publish: %w", err)
	}

	log.Printf("Event published: %s -> %s", routingKey, event.OrderNumber)
	return nil
}
