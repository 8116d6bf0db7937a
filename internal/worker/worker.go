package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"todo-api/internal/config"
	"todo-api/internal/models"
	"todo-api/pkg/logger"
)

const groupID = "todo-event-workers"

// Invalidator drops a user's cached todo list.
type Invalidator interface {
	InvalidateTodos(ctx context.Context, userID string)
}

// Run consumes todo events until ctx is cancelled: each event invalidates the
// owner's cached list and is written to the audit log.
// One consumer per process; replicas share partitions through the consumer group.
func Run(ctx context.Context, cfg *config.Config, cache Invalidator) {
	if !cfg.EventsEnabled() {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	logger.Info(ctx, "Kafka consumer started", "topic", cfg.KafkaTopic, "group", groupID)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info(ctx, "Kafka consumer stopped")
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, cache, msg.Value); err != nil {
			// Commit anyway to avoid poison pill blocking the partition
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
		}
		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

func handleMessage(ctx context.Context, cache Invalidator, payload []byte) error {
	var event models.TodoEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode todo event: %w", err)
	}
	switch event.Action {
	case models.ActionCreated, models.ActionUpdated, models.ActionDeleted:
	default:
		return fmt.Errorf("unknown todo event action %q", event.Action)
	}
	if event.UserID == "" {
		return fmt.Errorf("todo event %s has no user id", event.ID)
	}
	if cache != nil {
		cache.InvalidateTodos(ctx, event.UserID)
	}
	logger.Info(ctx, "Todo event",
		"action", event.Action,
		"todo_id", event.ID,
		"user_id", event.UserID,
		"occurred_at", event.OccurredAt)
	return nil
}
