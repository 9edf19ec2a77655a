package messaging

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// RabbitMQClient owns one connection and channel against the broker
// and keeps the topic exchange declared. It reconnects once when the
// broker drops the connection.
type RabbitMQClient struct {
	config     Config
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.RWMutex
	isClosing  bool
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewRabbitMQClient(config Config) *RabbitMQClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &RabbitMQClient{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (r *RabbitMQClient) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for i := 0; i < r.config.RetryCount; i++ {
		r.connection, err = amqp.Dial(r.config.ConnectionURL())
		if err != nil {
			log.Printf("RabbitMQ connection error (attempt %d/%d): %v", i+1, r.config.RetryCount, err)
			if i < r.config.RetryCount-1 {
				time.Sleep(r.config.RetryDelay)
				continue
			}
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}

		r.channel, err = r.connection.Channel()
		if err != nil {
			r.connection.Close()
			return fmt.Errorf("failed to open channel: %w", err)
		}

		err = r.channel.ExchangeDeclare(
			r.config.Exchange, // name
			"topic",           // type
			true,              // durable
			false,             // auto-deleted
			false,             // internal
			false,             // no-wait
			nil,               // arguments
		)
		if err != nil {
			r.channel.Close()
			r.connection.Close()
			return fmt.Errorf("failed to declare exchange: %w", err)
		}

		log.Printf("Connected to RabbitMQ: %s", r.config.Host)

		go r.handleReconnection()
		return nil
	}

	return err
}

func (r *RabbitMQClient) handleReconnection() {
	notifyClose := make(chan *amqp.Error)
	r.connection.NotifyClose(notifyClose)

	if err := <-notifyClose; err != nil && !r.closing() {
		log.Printf("RabbitMQ connection lost: %v. Reconnecting...", err)
		time.Sleep(time.Second * 2)
		if reconnectErr := r.Connect(); reconnectErr != nil {
			log.Printf("Reconnect error: %v", reconnectErr)
		}
	}
}

func (r *RabbitMQClient) closing() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isClosing
}

func (r *RabbitMQClient) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

func (r *RabbitMQClient) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connection != nil && !r.connection.IsClosed()
}

func (r *RabbitMQClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosing {
		return nil
	}
	r.isClosing = true
	r.cancel()

	var closeErr error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			closeErr = fmt.Errorf("channel close: %w", err)
		}
	}
	if r.connection != nil {
		if err := r.connection.Close(); err != nil {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; connection close: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("connection close: %w", err)
			}
		}
	}
	return closeErr
}
