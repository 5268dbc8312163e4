package mq

import (
	"context"
	"time"
)

// MessageQueue defines the producer-side interface for queueing judging
// tasks. Consumers (judging workers) live in other services; this service
// only publishes.
type MessageQueue interface {
	// Publish publishes a message to the specified topic
	Publish(ctx context.Context, topic string, message *Message) error

	// PublishBatch publishes multiple messages in a batch
	PublishBatch(ctx context.Context, topic string, messages []*Message) error

	// Ping verifies the message queue connection is alive
	Ping(ctx context.Context) error

	// Close closes the message queue connection
	Close() error
}

// Message represents a message in the queue
type Message struct {
	// ID is the unique identifier for the message
	ID string `json:"id"`

	// Body is the message payload
	Body []byte `json:"body"`

	// Headers contains metadata about the message
	Headers map[string]string `json:"headers"`

	// Timestamp is when the message was created
	Timestamp time.Time `json:"timestamp"`

	// Priority is the message priority (higher = more urgent)
	Priority uint8 `json:"priority"`
}

// NewMessage creates a new message with the given body
func NewMessage(body []byte) *Message {
	return &Message{
		Body:      body,
		Headers:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// SetHeader sets a header value
func (m *Message) SetHeader(key, value string) {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[key] = value
}

// GetHeader retrieves a header value
func (m *Message) GetHeader(key string) (string, bool) {
	if m.Headers == nil {
		return "", false
	}
	val, ok := m.Headers[key]
	return val, ok
}
