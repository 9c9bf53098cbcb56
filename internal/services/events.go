package services

import (
	"time"

	"inventory/internal/models"
)

// Routing keys for product events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers product events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductEvent is the message body published after a committed change.
type ProductEvent struct {
	Event      string         `json:"event"`
	Product    models.Product `json:"product"`
	OccurredAt time.Time      `json:"occurred_at"`
}
