package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blogmind_server/internal/api/middleware"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/service"
)

// UserHandler 当前登录用户的资料
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeUserError(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateProfile PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		writeUserError(c, err)
		return
	}

	response.SuccessWithMessage(c, "更新成功", profile)
}

// UploadAvatar POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	file, header, ok := formImage(c)
	if !ok {
		return
	}
	defer file.Close()

	avatarURL, err := h.userService.UploadAvatar(userID, file, header.Filename, header.Size)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	response.SuccessWithMessage(c, "上传成功", gin.H{"avatar_url": avatarURL})
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameExists):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFoundError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
