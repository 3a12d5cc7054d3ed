package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/model"
)

const ExchangeName = "kanban.events"

const (
	RoutingKeyTaskCreated = "task.created"
	RoutingKeyTaskUpdated = "task.updated"
	RoutingKeyTaskDeleted = "task.deleted"
)

// TaskEvent is the payload published for every task mutation. External
// consumers (e.g. a notification feed) subscribe to the topic exchange;
// delivery is fire-and-forget and nothing in this service depends on it.
type TaskEvent struct {
	TaskID     string    `json:"task_id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// IsConnected checks if the publisher connection is still alive.
func (p *Publisher) IsConnected() bool {
	if p == nil || p.conn == nil || p.channel == nil {
		return false
	}
	return !p.conn.IsClosed()
}

func (p *Publisher) TaskCreated(t *model.Task) {
	p.publish(RoutingKeyTaskCreated, t)
}

func (p *Publisher) TaskUpdated(t *model.Task) {
	p.publish(RoutingKeyTaskUpdated, t)
}

func (p *Publisher) TaskDeleted(t *model.Task) {
	p.publish(RoutingKeyTaskDeleted, t)
}

// publish is best-effort: a broker failure is logged and swallowed so
// task mutations never fail because of the event feed.
func (p *Publisher) publish(routingKey string, t *model.Task) {
	if p == nil {
		return
	}

	event := TaskEvent{
		TaskID:     t.ID,
		OwnerID:    t.OwnerID,
		Title:      t.Title,
		Status:     t.Status,
		OccurredAt: time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Failed to marshal task event", zap.Error(err))
		return
	}

	err = p.channel.Publish(
		ExchangeName,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
		},
	)
	if err != nil {
		p.logger.Warn("Failed to publish task event",
			zap.Error(err),
			zap.String("routing_key", routingKey),
			zap.String("task_id", t.ID),
		)
		return
	}

	p.logger.Debug("Task event published",
		zap.String("routing_key", routingKey),
		zap.String("task_id", t.ID),
	)
}
