package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blogmind_server/internal/api/middleware"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List 获取评论列表
// GET /api/v1/blogs/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	blogID, ok := pathID(c, "id")
	if !ok {
		response.ParamError(c, "无效的博客ID")
		return
	}

	page, pageSize := pageParams(c)
	items, total, err := h.commentService.ListByBlogID(blogID, page, pageSize)
	if err != nil {
		writeCommentError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Create 发表评论
// POST /api/v1/blogs/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	blogID, ok := pathID(c, "id")
	if !ok {
		response.ParamError(c, "无效的博客ID")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(userID, blogID, &req)
	if err != nil {
		writeCommentError(c, err)
		return
	}

	response.Created(c, comment)
}

// Update 编辑评论
// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, ok := pathID(c, "id")
	if !ok {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Update(userID, commentID, &req)
	if err != nil {
		writeCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "更新成功", comment)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, ok := pathID(c, "id")
	if !ok {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(userID, commentID); err != nil {
		writeCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

func writeCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound), errors.Is(err, service.ErrCommentNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrCommentPermission):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrEmptyComment):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
