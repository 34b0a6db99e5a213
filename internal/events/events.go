// Package events publishes storefront domain events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/pkg/kafka"
	"storefront/pkg/rabbitmq"
)

// TypeOrderPlaced is the routing key / type header of OrderPlaced.
const TypeOrderPlaced = "order.placed"

// OrderPlaced is emitted after a checkout commits.
type OrderPlaced struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email"`
	Total     string    `json:"total"`
	ItemCount int       `json:"item_count"`
	PlacedAt  time.Time `json:"placed_at"`
}

// NewOrderPlaced builds the event for order.
func NewOrderPlaced(order *models.Order) OrderPlaced {
	ev := OrderPlaced{
		OrderID:  order.ID,
		Email:    order.Email,
		Total:    order.Total().StringFixed(2),
		PlacedAt: order.CreatedAt,
	}
	if order.UserID != nil {
		ev.UserID = *order.UserID
	}
	for _, item := range order.Items {
		ev.ItemCount += item.Quantity
	}
	return ev
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
func (NopPublisher) Close() error                                           { return nil }

// RabbitMQPublisher publishes events to a topic exchange.
type RabbitMQPublisher struct {
	client *rabbitmq.Client
}

func NewRabbitMQPublisher(client *rabbitmq.Client) *RabbitMQPublisher {
	return &RabbitMQPublisher{client: client}
}

func (p *RabbitMQPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", TypeOrderPlaced, err)
	}
	return p.client.Publish(ctx, TypeOrderPlaced, body)
}

func (p *RabbitMQPublisher) Close() error {
	return p.client.Close()
}

// KafkaPublisher publishes events keyed by order id.
type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	return p.producer.SendMessage(ctx, ev.OrderID, ev, map[string]string{"type": TypeOrderPlaced})
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
