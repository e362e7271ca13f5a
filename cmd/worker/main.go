package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/database"
	"github.com/qs3c/blogmind_server/internal/pkg/email"
	"github.com/qs3c/blogmind_server/internal/pkg/queue"
	"github.com/qs3c/blogmind_server/internal/worker"
)

// 邮件 worker：消费注册验证码和欢迎邮件
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer rdb.Close()
	log.Println("Redis connected")

	mailer := worker.NewMailer(
		queue.NewQueue(rdb, cfg.Queue.MailQueue),
		email.NewService(&cfg.Email),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workers := cfg.Queue.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	log.Printf("Mail worker started, queue: %s, workers: %d", cfg.Queue.MailQueue, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		id := i
		g.Go(func() error {
			mailer.Run(ctx, id)
			return nil
		})
	}

	_ = g.Wait()
	log.Println("Worker shutdown complete")
}
