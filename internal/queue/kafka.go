package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"taskboard/internal/models"
	"taskboard/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// EventPublisher is satisfied by Publisher and Nop.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.TaskEvent) error
	Close() error
}

// Nop drops every event; used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, ev models.TaskEvent) error { return nil }
func (Nop) Close() error                                          { return nil }

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes task events to the activity topic.
type Publisher struct {
	w     messageWriter
	topic string
}

// NewPublisher creates an async writer for topic.
func NewPublisher(ctx context.Context, brokers []string, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 0,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", topic, "brokers", brokers)
	return &Publisher{w: w, topic: topic}
}

// Publish encodes ev as JSON keyed by user and action so one user's events stay ordered.
func (p *Publisher) Publish(ctx context.Context, ev models.TaskEvent) error {
	msg, err := Encode(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.w.Close()
}

// Encode builds the Kafka message for ev.
func Encode(ev models.TaskEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(ev.UserID + ":" + ev.Action),
		Value: payload,
	}, nil
}

// Decode parses a message value back into an event.
func Decode(value []byte) (models.TaskEvent, error) {
	var ev models.TaskEvent
	err := json.Unmarshal(value, &ev)
	return ev, err
}

// EnsureTopic creates the activity topic (idempotent).
// If it fails (e.g. no broker or topic exists), the app still runs.
func EnsureTopic(ctx context.Context, brokers []string, topic string, partitions int) {
	if len(brokers) == 0 {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", fmt.Sprint(err))
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", topic, "partitions", partitions)
}
