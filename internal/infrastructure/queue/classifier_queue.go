package queue

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"modai/services/message-api/internal/domain/usage"
)

// ClassifierQueue pushes classification jobs onto a Redis list consumed by
// the topic classification worker.
type ClassifierQueue struct {
	rdb       *goredis.Client
	queueName string
}

var _ usage.ClassificationPublisher = (*ClassifierQueue)(nil)

func NewClassifierQueue(rdb *goredis.Client, queueName string) *ClassifierQueue {
	return &ClassifierQueue{rdb: rdb, queueName: queueName}
}

// PublishClassificationJob implements usage.ClassificationPublisher.
func (q *ClassifierQueue) PublishClassificationJob(ctx context.Context, job usage.ClassificationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal classification job: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.queueName, payload).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", q.queueName, err)
	}
	return nil
}
