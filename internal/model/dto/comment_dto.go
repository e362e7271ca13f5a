package dto

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required,min=1,max=1000"`
}

// UpdateCommentRequest 编辑评论请求
type UpdateCommentRequest struct {
	Comment string `json:"comment" binding:"required,min=1,max=1000"`
}

// CommentItem 评论项
type CommentItem struct {
	ID        int64        `json:"id"`
	BlogID    int64        `json:"blog_id"`
	User      *CommentUser `json:"user"`
	Comment   string       `json:"comment"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// CommentUser 评论用户信息
type CommentUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}
