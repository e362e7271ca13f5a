package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/api"
	"github.com/qs3c/blogmind_server/internal/api/handler"
	"github.com/qs3c/blogmind_server/internal/database"
	"github.com/qs3c/blogmind_server/internal/pkg/ai"
	"github.com/qs3c/blogmind_server/internal/pkg/cron"
	"github.com/qs3c/blogmind_server/internal/pkg/imagesearch"
	"github.com/qs3c/blogmind_server/internal/pkg/oauth"
	"github.com/qs3c/blogmind_server/internal/pkg/oss"
	"github.com/qs3c/blogmind_server/internal/pkg/payment"
	"github.com/qs3c/blogmind_server/internal/pkg/pubsub"
	"github.com/qs3c/blogmind_server/internal/pkg/queue"
	"github.com/qs3c/blogmind_server/internal/pkg/ws"
	"github.com/qs3c/blogmind_server/internal/repository"
	"github.com/qs3c/blogmind_server/internal/service"
)

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer rdb.Close()
	log.Println("Redis connected")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化 OSS（可选，未配置时上传接口返回错误）
	var imageStore service.ImageStore
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			imageStore = ossClient
			log.Println("OSS client initialized")
		}
	}

	// 外部服务
	generator, err := ai.NewGeminiGenerator(ctx, &cfg.AI)
	if err != nil {
		log.Fatalf("Failed to init Gemini client: %v", err)
	}
	defer generator.Close()

	imageSearch := imagesearch.NewUnsplashClient(&cfg.ImageSearch)
	gateway := payment.NewRazorpayGateway(&cfg.Payment)
	publisher := pubsub.NewPublisher(rdb)
	mailQueue := queue.NewQueue(rdb, cfg.Queue.MailQueue)
	oauthStates := oauth.NewStateStore(rdb)

	wsHub := ws.NewHub()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	jobRepo := repository.NewGenerationJobRepository(db)
	orderRepo := repository.NewPaymentOrderRepository(db)

	// 初始化 Service
	membershipService := service.NewMembershipService(membershipRepo)
	uploadService := service.NewUploadService(imageStore, cfg)
	authService := service.NewAuthService(userRepo, membershipService, mailQueue, cfg)
	userService := service.NewUserService(userRepo, membershipService, uploadService)
	blogService := service.NewBlogService(blogRepo, likeRepo)
	commentService := service.NewCommentService(commentRepo, blogRepo)
	paymentService := service.NewPaymentService(orderRepo, gateway, cfg)
	generationService := service.NewGenerationService(
		db, membershipService, blogRepo, jobRepo, orderRepo,
		generator, imageSearch, publisher, cfg,
	)

	// 初始化 Handler
	router := api.NewRouter(
		handler.NewAuthHandler(authService, oauthStates),
		handler.NewUserHandler(userService),
		handler.NewBlogHandler(blogService),
		handler.NewCommentHandler(commentService),
		handler.NewAIBlogHandler(generationService, paymentService, membershipService),
		handler.NewUploadHandler(uploadService),
		handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, cfg.CORS.AllowedOrigins),
		authService,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Setup(),
	}

	cronService := cron.NewService(paymentService, time.Hour)
	cronService.Start()
	defer cronService.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 生成进度经 Redis 转发到用户的 WebSocket 连接
	g.Go(func() error {
		err := pubsub.NewSubscriber(rdb).Subscribe(gctx, func(msg *pubsub.ProgressMessage) {
			if err := wsHub.SendToUser(msg.UserID, &ws.Message{Type: msg.Type, Data: msg}); err != nil {
				log.Printf("Failed to push progress to user %d: %v", msg.UserID, err)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		wsHub.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped with error: %v", err)
		return
	}
	log.Println("Server shutdown complete")
}
