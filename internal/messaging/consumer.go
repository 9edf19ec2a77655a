package messaging

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

type EventHandler func(event NotificationEvent) error

type Consumer struct {
	client      *RabbitMQClient
	queueName   string
	consumerTag string
}

func NewConsumer(client *RabbitMQClient, queueName, consumerTag string) *Consumer {
	return &Consumer{
		client:      client,
		queueName:   queueName,
		consumerTag: consumerTag,
	}
}

// Consume binds the queue to the given routing keys and dispatches
// deliveries to the handler until the client shuts down. Handler
// failures are nacked without requeue; the worker records the failed
// notification itself.
func (c *Consumer) Consume(routingKeys []string, handler EventHandler) error {
	if !c.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	channel := c.client.Channel()

	queue, err := channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	for _, routingKey := range routingKeys {
		err = channel.QueueBind(queue.Name, routingKey, c.client.config.Exchange, false, nil)
		if err != nil {
			return fmt.Errorf("queue bind (%s): %w", routingKey, err)
		}
		log.Printf("Queue %s bound to routing key: %s", queue.Name, routingKey)
	}

	messages, err := channel.Consume(
		queue.Name,    // queue
		c.consumerTag, // consumer
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("consume start: %w", err)
	}

	log.Printf("Consuming events on queue: %s", queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				c.handleMessage(msg, handler)
			case <-c.client.ctx.Done():
				log.Printf("Consumer stopped: %s", c.consumerTag)
				return
			}
		}
	}()

	return nil
}

func (c *Consumer) handleMessage(msg amqp.Delivery, handler EventHandler) {
	var event NotificationEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Event deserialize error: %v", err)
		msg.Nack(false, false)
		return
	}

	if err := handler(event); err != nil {
		log.Printf("Event process error: %v", err)
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
}
