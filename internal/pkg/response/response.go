package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess          = 0
	CodeParamError       = 1000
	CodeAuthFailed       = 1001
	CodePermissionDenied = 1002
	CodeResourceNotFound = 1003
	CodeQuotaExceeded    = 1004
	CodeDuplicateAction  = 1005
	CodePaymentInvalid   = 1006
	CodeServerError      = 5000
	CodeGenerationFailed = 5001
	CodeNoImageFound     = 5002
)

// 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamError:       "invalid parameters",
	CodeAuthFailed:       "authentication failed",
	CodePermissionDenied: "permission denied",
	CodeResourceNotFound: "resource not found",
	CodeQuotaExceeded:    "No AI Blogs Left",
	CodeDuplicateAction:  "duplicate action",
	CodePaymentInvalid:   "payment verification failed",
	CodeServerError:      "internal server error",
	CodeGenerationFailed: "blog generation failed",
	CodeNoImageFound:     "no image found for heading",
}

// 错误码对应的 HTTP 状态码
var codeStatus = map[int]int{
	CodeSuccess:          http.StatusOK,
	CodeParamError:       http.StatusBadRequest,
	CodeAuthFailed:       http.StatusUnauthorized,
	CodePermissionDenied: http.StatusForbidden,
	CodeResourceNotFound: http.StatusNotFound,
	CodeQuotaExceeded:    http.StatusUnauthorized,
	CodeDuplicateAction:  http.StatusConflict,
	CodePaymentInvalid:   http.StatusBadRequest,
	CodeServerError:      http.StatusInternalServerError,
	CodeGenerationFailed: http.StatusInternalServerError,
	CodeNoImageFound:     http.StatusInternalServerError,
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageData 分页数据结构
type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

// HTTPStatus 返回错误码对应的 HTTP 状态码
func HTTPStatus(code int) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created 资源创建成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "created",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessPage 分页成功响应
func SuccessPage(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Error 错误响应，message 为空时使用默认消息
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(HTTPStatus(code), Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Abort 中间件中使用，终止后续处理
func Abort(c *gin.Context, code int, message string) {
	Error(c, code, message)
	c.Abort()
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// QuotaError 配额不足
func QuotaError(c *gin.Context, message string) {
	Error(c, CodeQuotaExceeded, message)
}

// DuplicateError 重复操作
func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

// PaymentError 支付校验失败
func PaymentError(c *gin.Context, message string) {
	Error(c, CodePaymentInvalid, message)
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
