package worker

import (
	"context"
	"sync/atomic"

	"taskboard/internal/models"
	"taskboard/internal/queue"
	"taskboard/pkg/logger"

	"github.com/segmentio/kafka-go"
)

const groupID = "taskboard-activity"

// messageReader is the part of *kafka.Reader the loop uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler is called once per decoded event.
type Handler func(ctx context.Context, ev models.TaskEvent) error

// Run consumes the activity topic and writes an audit line per event until ctx ends.
// One consumer per process; replicas share partitions through the consumer group.
func Run(ctx context.Context, brokers []string, topic string) {
	if len(brokers) == 0 {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	logger.Info(ctx, "Kafka consumer started", "topic", topic)
	n := consume(ctx, reader, Audit)
	logger.Info(ctx, "Kafka consumer stopped", "processed", n)
}

// Audit logs the event as a structured audit record.
func Audit(ctx context.Context, ev models.TaskEvent) error {
	logger.Info(ctx, "task activity",
		"action", ev.Action,
		"task_id", ev.TaskID,
		"user_id", ev.UserID,
		"title", ev.Title,
		"occurred_at", ev.OccurredAt)
	return nil
}

func consume(ctx context.Context, r messageReader, handle Handler) int64 {
	var processed int64
	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return atomic.LoadInt64(&processed)
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, msg.Value, handle); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
			_ = r.CommitMessages(ctx, msg)
			continue
		}
		if err := r.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
		atomic.AddInt64(&processed, 1)
	}
}

func handleMessage(ctx context.Context, payload []byte, handle Handler) error {
	ev, err := queue.Decode(payload)
	if err != nil {
		return err
	}
	return handle(ctx, ev)
}
