package cron

import (
	"context"
	"log"
	"time"
)

// OrderExpirer 将超时未支付的订单标记为过期
type OrderExpirer interface {
	ExpireStaleOrders(ctx context.Context) (int64, error)
}

type Service struct {
	orders   OrderExpirer
	interval time.Duration
	stopChan chan struct{}
}

func NewService(orders OrderExpirer, interval time.Duration) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{
		orders:   orders,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runOrderExpiry()
	log.Printf("Cron service started (order expiry every %s)", s.interval)
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

func (s *Service) runOrderExpiry() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.expireOrders()
		}
	}
}

func (s *Service) expireOrders() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.orders.ExpireStaleOrders(ctx)
	if err != nil {
		log.Printf("Failed to expire stale orders: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Expired %d stale payment orders", n)
	}
}

// RunNow 立即执行一次（用于测试或手动触发）
func (s *Service) RunNow(ctx context.Context) (int64, error) {
	return s.orders.ExpireStaleOrders(ctx)
}
