package mq

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	headerID        = "x-message-id"
	headerTimestamp = "x-message-ts"
	headerPriority  = "x-message-priority"
)

// KafkaConfig defines configuration for the Kafka implementation.
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers"`
	ClientID string   `yaml:"clientID"`

	// Producer settings
	RequiredAcks kafka.RequiredAcks `yaml:"requiredAcks"`
	BatchSize    int                `yaml:"batchSize"`
	BatchTimeout time.Duration      `yaml:"batchTimeout"`

	// Dialer settings
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// KafkaQueue implements MessageQueue using Kafka.
type KafkaQueue struct {
	config KafkaConfig
	writer *kafka.Writer

	mu     sync.Mutex
	closed bool
}

// NewKafkaQueue creates a Kafka-backed message queue.
func NewKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("brokers are required")
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = kafka.RequireAll
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: cfg.RequiredAcks,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &KafkaQueue{config: cfg, writer: writer}, nil
}

// Publish publishes a single message to the topic.
func (q *KafkaQueue) Publish(ctx context.Context, topic string, message *Message) error {
	return q.PublishBatch(ctx, topic, []*Message{message})
}

// PublishBatch publishes multiple messages to the topic.
func (q *KafkaQueue) PublishBatch(ctx context.Context, topic string, messages []*Message) error {
	if topic == "" {
		return errors.New("topic is required")
	}
	if len(messages) == 0 {
		return nil
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errors.New("queue is closed")
	}
	q.mu.Unlock()

	kafkaMessages := make([]kafka.Message, 0, len(messages))
	for _, message := range messages {
		if message == nil {
			return errors.New("message is nil")
		}
		kafkaMessages = append(kafkaMessages, toKafkaMessage(topic, message))
	}

	if err := q.writer.WriteMessages(ctx, kafkaMessages...); err != nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}
	return nil
}

// Ping verifies the connection by dialing the first broker.
func (q *KafkaQueue) Ping(ctx context.Context) error {
	dialer := &net.Dialer{Timeout: q.config.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", q.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("kafka dial failed: %w", err)
	}
	return conn.Close()
}

// Close closes the message queue connection.
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	return q.writer.Close()
}

func toKafkaMessage(topic string, message *Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(message.Headers)+3)
	for key, value := range message.Headers {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
	}
	if message.ID != "" {
		headers = append(headers, kafka.Header{Key: headerID, Value: []byte(message.ID)})
	}
	timestamp := message.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	headers = append(headers,
		kafka.Header{Key: headerTimestamp, Value: []byte(strconv.FormatInt(timestamp.UnixMilli(), 10))},
		kafka.Header{Key: headerPriority, Value: []byte(strconv.Itoa(int(message.Priority)))},
	)

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(message.ID),
		Value:   message.Body,
		Headers: headers,
		Time:    timestamp,
	}
}
