package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client
}

func TestStepProgress_Monotonic(t *testing.T) {
	steps := []string{StepGenerating, StepIllustrating, StepPersisting, StepDone}

	for i, step := range steps {
		assert.NotEmpty(t, StepMessages[step], "step %s should have a message", step)
		if i > 0 {
			assert.Less(t, StepProgress[steps[i-1]], StepProgress[step])
		}
	}
	assert.Equal(t, 100, StepProgress[StepDone])
	assert.NotEmpty(t, StepMessages[StepFailed])
}

func TestProgressMessage_OmitEmpty(t *testing.T) {
	data, err := json.Marshal(&ProgressMessage{UserID: 1, Status: "generating"})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "user_id")
	assert.Contains(t, raw, "job_id")
	assert.NotContains(t, raw, "message")
	assert.NotContains(t, raw, "error")
	assert.NotContains(t, raw, "blog_id")
}

func TestPublisherSubscriber(t *testing.T) {
	client := setupTestRedis(t)
	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *ProgressMessage, 1)
	go func() {
		_ = subscriber.Subscribe(ctx, func(msg *ProgressMessage) {
			received <- msg
		})
	}()

	// 等待订阅建立
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, ChannelGenerationProgress).Result()
		return err == nil && n[ChannelGenerationProgress] > 0
	}, 2*time.Second, 10*time.Millisecond)

	err := publisher.PublishProgress(ctx, &ProgressMessage{
		UserID: 123,
		JobID:  789,
		Status: "generating",
		Step:   StepIllustrating,
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, int64(123), msg.UserID)
		assert.Equal(t, int64(789), msg.JobID)
		assert.Equal(t, MessageTypeProgress, msg.Type)
		assert.Equal(t, StepProgress[StepIllustrating], msg.Progress)
		assert.Equal(t, StepMessages[StepIllustrating], msg.Message)
	case <-ctx.Done():
		t.Fatal("timeout waiting for progress message")
	}
}

func TestSubscriber_StopsOnCancel(t *testing.T) {
	client := setupTestRedis(t)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(*ProgressMessage) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
