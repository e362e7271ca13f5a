package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/repository"
)

var (
	ErrQuotaExhausted = errors.New("AI 生成次数已用完")
	ErrNoRecord       = errors.New("没有会员记录")
	ErrInvalidPlan    = errors.New("无效的会员套餐")
	ErrInvalidDelta   = errors.New("额度增量必须大于 0")
)

// PlanState 会员台账读取结果：Exists=false 表示没有记录（隐式 BASIC、0 次）
type PlanState struct {
	Exists         bool
	Plan           model.Plan
	QuotaRemaining int
}

// Entitled 是否还能发起 AI 生成
func (s PlanState) Entitled() bool {
	return s.Exists && s.QuotaRemaining > 0
}

// EffectivePlan 没有记录时视为 BASIC
func (s PlanState) EffectivePlan() model.Plan {
	if !s.Exists {
		return model.PlanBasic
	}
	return s.Plan
}

// MembershipService 会员台账。余额只通过单条原子 SQL 变更。
type MembershipService struct {
	repo *repository.MembershipRepository
}

func NewMembershipService(repo *repository.MembershipRepository) *MembershipService {
	return &MembershipService{repo: repo}
}

// GetRecord 读取会员状态
func (s *MembershipService) GetRecord(ctx context.Context, userID int64) (PlanState, error) {
	m, err := s.repo.WithContext(ctx).GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PlanState{}, nil
		}
		return PlanState{}, err
	}
	return PlanState{Exists: true, Plan: m.Plan, QuotaRemaining: m.AIBlogsLeft}, nil
}

// UpsertPlan 插入或更新会员记录：plan 覆盖，余额累加 delta
func (s *MembershipService) UpsertPlan(ctx context.Context, userID int64, plan model.Plan, delta int) error {
	return s.upsert(s.repo.WithContext(ctx), userID, plan, delta)
}

// UpsertPlanTx 在外部事务内执行 UpsertPlan
func (s *MembershipService) UpsertPlanTx(tx *gorm.DB, userID int64, plan model.Plan, delta int) error {
	return s.upsert(s.repo.WithTx(tx), userID, plan, delta)
}

func (s *MembershipService) upsert(repo *repository.MembershipRepository, userID int64, plan model.Plan, delta int) error {
	if !plan.Valid() {
		return ErrInvalidPlan
	}
	if delta <= 0 {
		return ErrInvalidDelta
	}
	return repo.Upsert(userID, plan, delta)
}

// DecrementQuota 余额减一；余额为 0 返回 ErrQuotaExhausted，无记录返回 ErrNoRecord
func (s *MembershipService) DecrementQuota(ctx context.Context, userID int64) error {
	repo := s.repo.WithContext(ctx)

	ok, err := repo.Decrement(userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	exists, err := repo.Exists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNoRecord
	}
	return ErrQuotaExhausted
}

// RefundQuota 退还一次预扣的额度
func (s *MembershipService) RefundQuota(ctx context.Context, userID int64) error {
	ok, err := s.repo.WithContext(ctx).Increment(userID, 1)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoRecord
	}
	return nil
}

// GetInfo 会员信息（返回给前端）
func (s *MembershipService) GetInfo(ctx context.Context, userID int64) (*dto.MembershipInfo, error) {
	state, err := s.GetRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MembershipInfo{
		HasPlan:     state.Exists,
		Plan:        string(state.EffectivePlan()),
		AIBlogsLeft: state.QuotaRemaining,
	}, nil
}
