package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blogmind_server/internal/api/middleware"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/service"
)

type BlogHandler struct {
	blogService *service.BlogService
}

func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

func viewerID(c *gin.Context) *int64 {
	if id, ok := middleware.GetUserID(c); ok {
		return &id
	}
	return nil
}

// List 博客流
// GET /api/v1/blogs?page=&page_size=&author_id=
func (h *BlogHandler) List(c *gin.Context) {
	var req dto.BlogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	req.Page, req.PageSize = pageParams(c)

	items, total, err := h.blogService.List(&req, viewerID(c))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// Get 博客详情
// GET /api/v1/blogs/:id
func (h *BlogHandler) Get(c *gin.Context) {
	blogID, ok := pathID(c, "id")
	if !ok {
		response.ParamError(c, "无效的博客ID")
		return
	}

	item, err := h.blogService.Get(blogID, viewerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, item)
}

// Mine 我的博客
// GET /api/v1/blogs/mine
func (h *BlogHandler) Mine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, pageSize := pageParams(c)
	items, total, err := h.blogService.ListMine(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Create 手动发布博客
// POST /api/v1/blogs
func (h *BlogHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.blogService.Create(userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, item)
}

// Update 修改博客
// PUT /api/v1/blogs/:id
func (h *BlogHandler) Update(c *gin.Context) {
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

	var req dto.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.blogService.Update(userID, blogID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "更新成功", item)
}

// Delete 删除博客
// DELETE /api/v1/blogs/:id
func (h *BlogHandler) Delete(c *gin.Context) {
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

	if err := h.blogService.Delete(userID, blogID); err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ToggleLike 点赞 / 取消点赞
// POST /api/v1/blogs/:id/like
func (h *BlogHandler) ToggleLike(c *gin.Context) {
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

	resp, err := h.blogService.ToggleLike(userID, blogID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, resp)
}

func (h *BlogHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrBlogPermission):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrInvalidHeading):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
