package handler

import (
	"errors"
	"log"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blogmind_server/internal/api/middleware"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/service"
)

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadCover 上传博客封面
// POST /api/v1/upload/cover
func (h *UploadHandler) UploadCover(c *gin.Context) {
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

	resp, err := h.uploadService.UploadCover(userID, file, header.Filename, header.Size)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	response.Success(c, resp)
}

// formImage 读取表单里的 file 字段，失败时已写好响应
func formImage(c *gin.Context) (multipart.File, *multipart.FileHeader, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "请上传文件")
		return nil, nil, false
	}
	return file, header, true
}

func writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrInvalidImage):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrStorageNotConfig):
		response.ServerError(c, err.Error())
	default:
		log.Printf("Image upload failed: %v", err)
		response.ServerError(c, "上传失败")
	}
}
