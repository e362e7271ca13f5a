package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blogmind_server/internal/pkg/jwt"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/service"
)

const (
	UserIDKey    = "userID"
	PrincipalKey = "principal"
)

// Authenticator 把 token 中的用户 ID 解析为调用方身份
type Authenticator interface {
	Authenticate(userID int64) (service.Principal, error)
}

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, response.CodeAuthFailed, "请提供认证信息")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.Abort(c, response.CodeAuthFailed, "认证格式错误")
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.Abort(c, response.CodeAuthFailed, "认证失败或已过期")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			c.Next()
			return
		}

		if claims, err := jwt.ParseToken(tokenString, jwtSecret); err == nil {
			c.Set(UserIDKey, claims.UserID)
		}

		c.Next()
	}
}

// RequireVerified 必须在 Auth 之后使用。
// 查库确认用户存在且邮箱已验证，并把 Principal 放进上下文。
func RequireVerified(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Abort(c, response.CodeAuthFailed, "")
			return
		}

		principal, err := auth.Authenticate(userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.Abort(c, response.CodeAuthFailed, "用户不存在")
				return
			}
			response.Abort(c, response.CodeServerError, "")
			return
		}

		if !principal.Verified {
			response.Abort(c, response.CodeAuthFailed, service.ErrAccountNotVerified.Error())
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetPrincipal 从上下文获取 RequireVerified 写入的调用方身份
func GetPrincipal(c *gin.Context) (service.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return service.Principal{}, false
	}
	p, ok := v.(service.Principal)
	return p, ok
}
