package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blogmind_server/internal/api/middleware"
	"github.com/qs3c/blogmind_server/internal/model"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/service"
)

// AIBlogHandler AI 生成、会员与支付
type AIBlogHandler struct {
	generation *service.GenerationService
	payments   *service.PaymentService
	membership *service.MembershipService
}

func NewAIBlogHandler(
	generation *service.GenerationService,
	payments *service.PaymentService,
	membership *service.MembershipService,
) *AIBlogHandler {
	return &AIBlogHandler{
		generation: generation,
		payments:   payments,
		membership: membership,
	}
}

// Generate AI 生成博客
// POST /api/v1/aiblogs/generate
func (h *AIBlogHandler) Generate(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.GenerateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.generation.Generate(c.Request.Context(), p, req.Heading)
	if err != nil {
		writeAIBlogError(c, err)
		return
	}

	response.Created(c, item)
}

// Membership 当前会员状态，没有记录时 has_plan=false
// GET /api/v1/aiblogs/membership
func (h *AIBlogHandler) Membership(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.membership.GetInfo(c.Request.Context(), userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// Plans 套餐目录
// GET /api/v1/aiblogs/plans
func (h *AIBlogHandler) Plans(c *gin.Context) {
	response.Success(c, gin.H{
		"plans": h.payments.Plans(),
	})
}

// Checkout 创建支付订单
// POST /api/v1/aiblogs/checkout
func (h *AIBlogHandler) Checkout(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.payments.Checkout(c.Request.Context(), p, req.Plan)
	if err != nil {
		writeAIBlogError(c, err)
		return
	}

	response.Created(c, resp)
}

// Upgrade 校验支付并升级会员
// POST /api/v1/aiblogs/upgrade
func (h *AIBlogHandler) Upgrade(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	payment, err := h.payments.VerifyPayment(ctx, p, &req)
	if err != nil {
		writeAIBlogError(c, err)
		return
	}

	info, err := h.generation.Upgrade(ctx, p, model.Plan(strings.ToUpper(req.Plan)), payment)
	if err != nil {
		writeAIBlogError(c, err)
		return
	}

	response.Created(c, info)
}

// Jobs 最近的生成记录
// GET /api/v1/aiblogs/jobs?limit=
func (h *AIBlogHandler) Jobs(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	jobs, err := h.generation.RecentJobs(userID, limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"jobs": jobs})
}

// Orders 支付订单记录
// GET /api/v1/aiblogs/orders
func (h *AIBlogHandler) Orders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	orders, err := h.payments.ListOrders(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"orders": orders})
}

func writeAIBlogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotVerified):
		response.AuthError(c, err.Error())
	case errors.Is(err, service.ErrNoQuota):
		response.QuotaError(c, err.Error())
	case errors.Is(err, service.ErrInvalidHeading),
		errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, service.ErrPlanMismatch):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrOrderConsumed):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrInvalidSignature):
		response.PaymentError(c, err.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		response.Error(c, response.CodeGenerationFailed, err.Error())
	case errors.Is(err, service.ErrNoImageFound):
		response.Error(c, response.CodeNoImageFound, err.Error())
	default:
		response.ServerError(c, "")
	}
}
