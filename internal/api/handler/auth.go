package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/oauth"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/service"
)

// OAuthStateStore OAuth state 的生成与一次性校验
type OAuthStateStore interface {
	GenerateState(ctx context.Context, returnTo string) (string, error)
	ValidateState(ctx context.Context, state string) (string, error)
}

type AuthHandler struct {
	authService *service.AuthService
	states      OAuthStateStore
}

func NewAuthHandler(authService *service.AuthService, states OAuthStateStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		states:      states,
	}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrUsernameExists):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "注册成功，请查收验证邮件", resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.AuthError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "登录成功", resp)
}

// VerifyEmail 验证邮箱
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.VerifyEmail(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVerifyCode):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrAlreadyVerified):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "邮箱验证成功", resp)
}

// ResendOTP 重新发送验证码
// POST /api/v1/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req dto.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	err := h.authService.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrAlreadyVerified):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "验证码已发送", nil)
}

// GithubAuth 跳转到 GitHub 授权页
// GET /api/v1/auth/github?return_to=
func (h *AuthHandler) GithubAuth(c *gin.Context) {
	state, err := h.states.GenerateState(c.Request.Context(), c.Query("return_to"))
	if err != nil {
		log.Printf("Failed to generate oauth state: %v", err)
		response.ServerError(c, "")
		return
	}

	c.Redirect(http.StatusFound, h.authService.GetGithubAuthURL(state))
}

// GithubCallback GitHub 授权回调。带 return_to 时重定向回前端，token 放在 fragment 里。
// GET /api/v1/auth/github/callback
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	returnTo, err := h.states.ValidateState(c.Request.Context(), c.Query("state"))
	if err != nil {
		if errors.Is(err, oauth.ErrEmptyState) || errors.Is(err, oauth.ErrInvalidState) {
			response.AuthError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	code := c.Query("code")
	if code == "" {
		response.ParamError(c, "缺少授权码")
		return
	}

	resp, err := h.authService.GithubCallback(c.Request.Context(), code)
	if err != nil {
		log.Printf("GitHub login failed: %v", err)
		response.AuthError(c, "GitHub 登录失败")
		return
	}

	if returnTo != "" {
		c.Redirect(http.StatusFound, returnTo+"#token="+url.QueryEscape(resp.Token))
		return
	}
	response.SuccessWithMessage(c, "登录成功", resp)
}
