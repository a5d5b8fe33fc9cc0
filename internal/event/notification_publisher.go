package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"assistance-service/internal/config"
)

// NotificationPublisher owns the broker connection and the channel used for
// workflow milestone events. Delivery (push, email) is the notification
// service's concern.
type NotificationPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher dials the broker, opens the publishing channel and declares
// the notification queue once up front.
func NewPublisher(cfg config.RabbitMQConfig) (*NotificationPublisher, error) {
	connStr := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	conn, err := amqp.Dial(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		PushNotiQueue, // queue name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	slog.Info("Connected to RabbitMQ", "host", cfg.Host, "port", cfg.Port)
	return &NotificationPublisher{conn: conn, channel: ch}, nil
}

// Close shuts down the channel and then the connection.
func (p *NotificationPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			slog.Error("failed to close RabbitMQ channel", "error", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			slog.Error("failed to close RabbitMQ connection", "error", err)
			return err
		}
	}
	slog.Info("RabbitMQ connection closed")
	return nil
}

// PublishNotification publishes one notification event to the
// push_noti_events queue.
func (p *NotificationPublisher) PublishNotification(ctx context.Context, event NotificationEventPushModel) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		"",            // exchange
		PushNotiQueue, // routing key (queue name)
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}
	return nil
}

// PublishWorkflowEvent is a convenience wrapper for the milestone events
// raised by the workflow engines.
func (p *NotificationPublisher) PublishWorkflowEvent(ctx context.Context, eventName string, userIDs []string, title, body string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["event"] = eventName
	return p.PublishNotification(ctx, NotificationEventPushModel{
		LstUserIds: userIDs,
		Title:      title,
		Body:       body,
		Data:       data,
	})
}
