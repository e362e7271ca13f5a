package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	calls int32
	n     int64
	err   error
}

func (c *countingExpirer) ExpireStaleOrders(ctx context.Context) (int64, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.n, c.err
}

func TestNewService_DefaultInterval(t *testing.T) {
	svc := NewService(&countingExpirer{}, 0)
	assert.Equal(t, time.Hour, svc.interval)
	assert.NotNil(t, svc.stopChan)
}

func TestService_RunNow(t *testing.T) {
	exp := &countingExpirer{n: 3}
	svc := NewService(exp, time.Hour)

	n, err := svc.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, int32(1), atomic.LoadInt32(&exp.calls))
}

func TestService_RunNow_Error(t *testing.T) {
	svc := NewService(&countingExpirer{err: errors.New("db down")}, time.Hour)

	_, err := svc.RunNow(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestService_TicksUntilStopped(t *testing.T) {
	exp := &countingExpirer{n: 1}
	svc := NewService(exp, 10*time.Millisecond)

	svc.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&exp.calls) >= 2
	}, time.Second, 5*time.Millisecond)
	svc.Stop()

	stopped := atomic.LoadInt32(&exp.calls)
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&exp.calls), stopped+1)
}
