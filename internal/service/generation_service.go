package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/model"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/ai"
	"github.com/qs3c/blogmind_server/internal/pkg/pubsub"
	"github.com/qs3c/blogmind_server/internal/repository"
)

var (
	ErrAccountNotVerified = errors.New("邮箱尚未验证")
	ErrNoQuota            = errors.New("No AI Blogs Left")
	ErrInvalidHeading     = errors.New("标题不能为空")
	ErrGenerationFailed   = errors.New("AI 生成失败")
	ErrNoImageFound       = errors.New("没有找到合适的配图")
	ErrPersistFailed      = errors.New("保存博客失败")
	ErrOrderConsumed      = errors.New("订单已使用或已过期")
)

// TextGenerator 文本生成服务
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageSearcher 图片搜索服务，无结果时返回空切片
type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// ProgressPublisher 生成进度推送
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, msg *pubsub.ProgressMessage) error
}

const settleTimeout = 5 * time.Second

// GenerationService AI 生成准入与升级。
// 额度在调用外部服务前预扣，之后任何失败都退还一次。
type GenerationService struct {
	db           *gorm.DB
	membership   *MembershipService
	blogRepo     *repository.BlogRepository
	jobRepo      *repository.GenerationJobRepository
	orderRepo    *repository.PaymentOrderRepository
	generator    TextGenerator
	images       ImageSearcher
	progress     ProgressPublisher
	cfg          *config.Config
	genTimeout   time.Duration
	imageTimeout time.Duration
}

func NewGenerationService(
	db *gorm.DB,
	membership *MembershipService,
	blogRepo *repository.BlogRepository,
	jobRepo *repository.GenerationJobRepository,
	orderRepo *repository.PaymentOrderRepository,
	generator TextGenerator,
	images ImageSearcher,
	progress ProgressPublisher,
	cfg *config.Config,
) *GenerationService {
	return &GenerationService{
		db:           db,
		membership:   membership,
		blogRepo:     blogRepo,
		jobRepo:      jobRepo,
		orderRepo:    orderRepo,
		generator:    generator,
		images:       images,
		progress:     progress,
		cfg:          cfg,
		genTimeout:   seconds(cfg.AI.TimeoutSeconds, 60),
		imageTimeout: seconds(cfg.ImageSearch.TimeoutSeconds, 15),
	}
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// generation 一次生成请求的上下文
type generation struct {
	userID    int64
	heading   string
	jobID     int64
	startedAt time.Time
}

// Generate 预扣额度 -> 生成正文 -> 搜索配图 -> 保存博客
func (s *GenerationService) Generate(ctx context.Context, p Principal, heading string) (*dto.BlogItem, error) {
	if !p.Verified {
		return nil, ErrAccountNotVerified
	}
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return nil, ErrInvalidHeading
	}

	g := &generation{userID: p.UserID, heading: heading, startedAt: time.Now()}

	// 准入检查即原子扣减，失败者不会触达外部服务
	if err := s.membership.DecrementQuota(ctx, p.UserID); err != nil {
		if errors.Is(err, ErrQuotaExhausted) || errors.Is(err, ErrNoRecord) {
			s.audit(&model.GenerationJob{UserID: p.UserID, Heading: heading, Status: model.JobStatusRejected, ErrorMessage: err.Error()})
			return nil, ErrNoQuota
		}
		return nil, err
	}

	job := &model.GenerationJob{UserID: p.UserID, Heading: heading, Status: model.JobStatusGenerating}
	s.audit(job)
	g.jobID = job.ID

	s.publish(ctx, g, pubsub.StepGenerating, 0, "")
	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	description, err := s.generator.Generate(genCtx, ai.BuildBlogPrompt(heading))
	cancel()
	if err != nil {
		return nil, s.fail(ctx, g, fmt.Errorf("%w: %v", ErrGenerationFailed, err))
	}

	s.step(ctx, g, model.JobStatusIllustrating, pubsub.StepIllustrating)
	imgCtx, cancel := context.WithTimeout(ctx, s.imageTimeout)
	urls, err := s.images.Search(imgCtx, heading)
	cancel()
	if err != nil {
		return nil, s.fail(ctx, g, fmt.Errorf("%w: image search: %v", ErrGenerationFailed, err))
	}
	if len(urls) == 0 {
		return nil, s.fail(ctx, g, ErrNoImageFound)
	}

	s.step(ctx, g, model.JobStatusPersisting, pubsub.StepPersisting)
	blog := &model.Blog{
		AuthorID:      p.UserID,
		Heading:       heading,
		Description:   description,
		ImageURL:      urls[0],
		IsAIGenerated: true,
	}
	if err := s.blogRepo.WithContext(ctx).Create(blog); err != nil {
		log.Printf("Generation wasted: user=%d job=%d heading=%q persist error: %v", p.UserID, g.jobID, heading, err)
		return nil, s.fail(ctx, g, fmt.Errorf("%w: %v", ErrPersistFailed, err))
	}

	if g.jobID > 0 {
		if err := s.jobRepo.Finish(g.jobID, model.JobStatusDone, &blog.ID, "", g.startedAt); err != nil {
			log.Printf("Failed to finish generation job %d: %v", g.jobID, err)
		}
	}
	s.publish(ctx, g, pubsub.StepDone, blog.ID, "")

	return toBlogItem(blog, nil, 0, 0, false), nil
}

// fail 退还预扣额度并记录失败
func (s *GenerationService) fail(ctx context.Context, g *generation, cause error) error {
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	if err := s.membership.RefundQuota(settleCtx, g.userID); err != nil {
		log.Printf("Failed to refund quota: user=%d job=%d: %v", g.userID, g.jobID, err)
	}

	if g.jobID > 0 {
		if err := s.jobRepo.Finish(g.jobID, model.JobStatusFailed, nil, cause.Error(), g.startedAt); err != nil {
			log.Printf("Failed to finish generation job %d: %v", g.jobID, err)
		}
	}
	s.publish(settleCtx, g, pubsub.StepFailed, 0, cause.Error())

	return cause
}

func (s *GenerationService) step(ctx context.Context, g *generation, status, step string) {
	if g.jobID > 0 {
		if err := s.jobRepo.UpdateStatus(g.jobID, status); err != nil {
			log.Printf("Failed to update generation job %d: %v", g.jobID, err)
		}
	}
	s.publish(ctx, g, step, 0, "")
}

func (s *GenerationService) audit(job *model.GenerationJob) {
	if err := s.jobRepo.Create(job); err != nil {
		log.Printf("Failed to record generation job for user %d: %v", job.UserID, err)
	}
}

func (s *GenerationService) publish(ctx context.Context, g *generation, step string, blogID int64, errMsg string) {
	if s.progress == nil {
		return
	}
	msg := &pubsub.ProgressMessage{
		UserID: g.userID,
		JobID:  g.jobID,
		BlogID: blogID,
		Status: step,
		Step:   step,
		Error:  errMsg,
	}
	if err := s.progress.PublishProgress(ctx, msg); err != nil {
		log.Printf("Failed to publish generation progress: job=%d step=%s: %v", g.jobID, step, err)
	}
}

// Upgrade 兑换已验证的支付：同一事务内标记订单已支付并增加额度
func (s *GenerationService) Upgrade(ctx context.Context, p Principal, plan model.Plan, payment VerifiedPayment) (*dto.MembershipInfo, error) {
	if !p.Verified {
		return nil, ErrAccountNotVerified
	}
	if payment.userID != p.UserID {
		return nil, ErrOrderNotFound
	}
	if payment.plan != plan {
		return nil, ErrPlanMismatch
	}
	grant, ok := s.cfg.Membership.Plan(string(plan))
	if !ok || !plan.Paid() {
		return nil, ErrInvalidPlan
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paid, err := s.orderRepo.WithTx(tx).MarkPaid(payment.orderRef, p.UserID, payment.paymentID)
		if err != nil {
			return err
		}
		if !paid {
			return ErrOrderConsumed
		}
		return s.membership.UpsertPlanTx(tx, p.UserID, plan, grant.QuotaGrant)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Membership upgraded: user=%d plan=%s grant=%d order=%s", p.UserID, plan, grant.QuotaGrant, payment.orderRef)
	return s.membership.GetInfo(ctx, p.UserID)
}

// RecentJobs 用户最近的生成记录
func (s *GenerationService) RecentJobs(userID int64, limit int) ([]*model.GenerationJob, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.jobRepo.ListByUser(userID, limit)
}
