package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/qs3c/blogmind_server/internal/pkg/queue"
)

const (
	defaultMaxAttempts = 3
	defaultPopTimeout  = 5 * time.Second
)

var ErrUnknownMailKind = errors.New("unknown mail kind")

// MailSender 实际发信，email.Service 实现了它
type MailSender interface {
	SendVerificationCode(to, username, code string) error
	SendWelcome(to, username string) error
}

// MailQueue 邮件任务队列
type MailQueue interface {
	Push(ctx context.Context, job *queue.MailJob) error
	Pop(ctx context.Context, timeout time.Duration) (*queue.MailJob, error)
}

// Mailer 从 Redis 队列取邮件任务并发送，失败的任务重新入队，最多尝试 maxAttempts 次
type Mailer struct {
	queue       MailQueue
	sender      MailSender
	maxAttempts int
	popTimeout  time.Duration
}

func NewMailer(q MailQueue, sender MailSender) *Mailer {
	return &Mailer{
		queue:       q,
		sender:      sender,
		maxAttempts: defaultMaxAttempts,
		popTimeout:  defaultPopTimeout,
	}
}

// Run 循环消费直到 ctx 结束
func (m *Mailer) Run(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			log.Printf("Mail worker %d shutting down", workerID)
			return
		default:
		}

		job, err := m.queue.Pop(ctx, m.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Mail worker %d: failed to pop job: %v", workerID, err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue // 超时，继续等待
		}

		if err := m.Process(ctx, job); err != nil {
			log.Printf("Mail worker %d: %s mail to %s failed: %v", workerID, job.Kind, job.To, err)
		}
	}
}

// Process 发送一封邮件，可重试的失败会重新入队
func (m *Mailer) Process(ctx context.Context, job *queue.MailJob) error {
	err := m.send(job)
	if err == nil {
		log.Printf("Sent %s mail to %s", job.Kind, job.To)
		return nil
	}
	if errors.Is(err, ErrUnknownMailKind) {
		return err
	}

	job.Attempt++
	if job.Attempt >= m.maxAttempts {
		return fmt.Errorf("giving up after %d attempts: %w", job.Attempt, err)
	}
	if pushErr := m.queue.Push(ctx, job); pushErr != nil {
		return fmt.Errorf("requeue failed: %v (send error: %w)", pushErr, err)
	}
	return err
}

func (m *Mailer) send(job *queue.MailJob) error {
	switch job.Kind {
	case queue.MailKindOTP:
		return m.sender.SendVerificationCode(job.To, job.Username, job.Code)
	case queue.MailKindWelcome:
		return m.sender.SendWelcome(job.To, job.Username)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMailKind, job.Kind)
	}
}
