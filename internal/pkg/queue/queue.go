package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 邮件任务类型
const (
	MailKindOTP     = "otp"
	MailKindWelcome = "welcome"
)

// Queue 基于 Redis List 的 FIFO 队列
type Queue struct {
	client    *redis.Client
	queueName string
}

// MailJob 异步发送的邮件任务
type MailJob struct {
	Kind       string    `json:"kind"`
	To         string    `json:"to"`
	Username   string    `json:"username"`
	Code       string    `json:"code,omitempty"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push 将任务加入队列
func (q *Queue) Push(ctx context.Context, job *MailJob) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal mail job: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 阻塞获取任务，超时返回 (nil, nil)
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*MailJob, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var job MailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mail job: %w", err)
	}

	return &job, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
