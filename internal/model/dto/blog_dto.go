package dto

// CreateBlogRequest 手动发布博客
type CreateBlogRequest struct {
	Heading     string `json:"heading" binding:"required,max=300"`
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"image_url,omitempty" binding:"omitempty,url,max=1000"`
}

// UpdateBlogRequest 更新博客
type UpdateBlogRequest struct {
	Heading     *string `json:"heading,omitempty" binding:"omitempty,min=1,max=300"`
	Description *string `json:"description,omitempty" binding:"omitempty,min=1"`
	ImageURL    *string `json:"image_url,omitempty" binding:"omitempty,max=1000"`
}

// BlogListRequest 列表查询参数
type BlogListRequest struct {
	Page     int   `form:"page,default=1"`
	PageSize int   `form:"page_size,default=20"`
	AuthorID int64 `form:"author_id"`
}

// BlogItem 博客列表项 / 详情
type BlogItem struct {
	ID            int64       `json:"id"`
	Heading       string      `json:"heading"`
	Description   string      `json:"description"`
	ImageURL      string      `json:"image_url"`
	IsAIGenerated bool        `json:"is_ai_generated"`
	Author        *AuthorInfo `json:"author,omitempty"`
	LikeCount     int64       `json:"like_count"`
	CommentCount  int64       `json:"comment_count"`
	Liked         bool        `json:"liked"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

// AuthorInfo 作者信息
type AuthorInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// LikeResponse 点赞响应
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
