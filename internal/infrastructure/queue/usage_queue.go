package queue

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"modai/services/message-api/internal/domain/usage"
)

// UsageQueue pushes usage events onto a Redis list consumed by the usage
// tracking worker.
type UsageQueue struct {
	rdb       *goredis.Client
	queueName string
}

var _ usage.UsagePublisher = (*UsageQueue)(nil)

func NewUsageQueue(rdb *goredis.Client, queueName string) *UsageQueue {
	return &UsageQueue{rdb: rdb, queueName: queueName}
}

// PublishUsageEvent implements usage.UsagePublisher.
func (q *UsageQueue) PublishUsageEvent(ctx context.Context, event usage.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal usage event: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.queueName, payload).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", q.queueName, err)
	}
	return nil
}
