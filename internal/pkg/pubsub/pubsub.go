package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelGenerationProgress = "generation_progress"
	MessageTypeProgress       = "generation_progress"
)

// ProgressMessage AI 生成进度
type ProgressMessage struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	JobID    int64  `json:"job_id"`
	BlogID   int64  `json:"blog_id,omitempty"`
	Status   string `json:"status"`
	Step     string `json:"step"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// 进度阶段
const (
	StepGenerating   = "generating"
	StepIllustrating = "illustrating"
	StepPersisting   = "persisting"
	StepDone         = "done"
	StepFailed       = "failed"
)

var StepProgress = map[string]int{
	StepGenerating:   25,
	StepIllustrating: 60,
	StepPersisting:   85,
	StepDone:         100,
}

var StepMessages = map[string]string{
	StepGenerating:   "Writing your blog",
	StepIllustrating: "Finding a cover image",
	StepPersisting:   "Saving your blog",
	StepDone:         "Your blog is ready",
	StepFailed:       "Blog generation failed",
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishProgress 发布进度消息，按阶段自动填充进度和提示
func (p *Publisher) PublishProgress(ctx context.Context, msg *ProgressMessage) error {
	msg.Type = MessageTypeProgress

	if msg.Progress == 0 && msg.Step != "" {
		msg.Progress = StepProgress[msg.Step]
	}
	if msg.Message == "" && msg.Step != "" {
		msg.Message = StepMessages[msg.Step]
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal progress message: %w", err)
	}

	return p.client.Publish(ctx, ChannelGenerationProgress, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅进度消息直到 ctx 结束
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*ProgressMessage)) error {
	sub := s.client.Subscribe(ctx, ChannelGenerationProgress)
	defer sub.Close()

	// 等待订阅确认，保证返回前的消息不会丢
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var progressMsg ProgressMessage
			if err := json.Unmarshal([]byte(msg.Payload), &progressMsg); err != nil {
				continue // 忽略解析错误
			}

			handler(&progressMsg)
		}
	}
}
