package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/database"
	"github.com/qs3c/blogmind_server/internal/repository"
	"github.com/qs3c/blogmind_server/internal/service"
)

var dryRun = flag.Bool("dry-run", true, "Dry run mode, only count stale orders")

func main() {
	flag.Parse()

	log.Println("Starting payment order cleanup...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 只用到订单查询，不需要支付网关
	payments := service.NewPaymentService(repository.NewPaymentOrderRepository(db), nil, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var n int64
	if *dryRun {
		n, err = payments.CountStaleOrders(ctx)
	} else {
		n, err = payments.ExpireStaleOrders(ctx)
	}
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Println(strings.Repeat("=", 60))
	log.Printf("Stale orders (older than %dh): %d", cfg.Payment.OrderTTLHours, n)
	if *dryRun {
		log.Println("DRY RUN MODE - no orders were changed")
		log.Println("Run with -dry-run=false to mark them expired")
	} else {
		log.Println("Cleanup completed")
	}
	log.Println(strings.Repeat("=", 60))
}
