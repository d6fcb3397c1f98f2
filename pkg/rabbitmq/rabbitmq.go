package rabbitmq

import (
	"sync"
	"time"

	"github.com/go-faster/errors"
	amqp "github.com/streadway/amqp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Topology used for order events.
const (
	OrdersExchange = "orders"
	OrderQueue     = "order_queue"
	OrderBinding   = "order.*"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
	// amqp channels are not safe for concurrent publishes
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the orders exchange and queue.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected",
		zap.String("exchange", OrdersExchange),
		zap.String("queue", OrderQueue),
	)

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		OrdersExchange, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		return errors.Wrap(err, "declare orders exchange")
	}

	if _, err := ch.QueueDeclare(
		OrderQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		return errors.Wrap(err, "declare order_queue")
	}

	if err := ch.QueueBind(OrderQueue, OrderBinding, OrdersExchange, false, nil); err != nil {
		return errors.Wrap(err, "bind order_queue")
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "close channel"))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "close connection"))
		}
	}
	return errs
}

// Publish sends a persistent JSON message to the orders exchange.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		OrdersExchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return errors.Wrapf(err, "publish %s", routingKey)
	}

	c.log.Debug("Sent order event", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// ConsumeOrderEvents starts a goroutine that passes every message on order_queue to handler.
// Messages are acked when handler returns nil and requeued once otherwise.
func (c *Client) ConsumeOrderEvents(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		OrderQueue, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return errors.Wrap(err, "register consumer")
	}

	c.log.Info("Waiting for order events", zap.String("queue", OrderQueue))

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.log.Warn("Error processing message",
					zap.Uint64("delivery_tag", msg.DeliveryTag),
					zap.String("routing_key", msg.RoutingKey),
					zap.Error(err),
				)
				// Redelivered messages are dropped to avoid a poison loop.
				if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
					c.log.Warn("Error nacking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.log.Warn("Error acking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
			}
		}
	}()

	return nil
}

// LogOrderEvent returns a handler that records every order event.
func LogOrderEvent(log *zap.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		if len(msg.Body) == 0 {
			return errors.New("empty order event")
		}
		log.Info("Received order event",
			zap.String("routing_key", msg.RoutingKey),
			zap.ByteString("body", msg.Body),
		)
		return nil
	}
}
