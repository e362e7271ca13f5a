package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/repository"
)

var (
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommentPermission = errors.New("无权操作此评论")
	ErrEmptyComment      = errors.New("评论内容不能为空")
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	blogRepo    *repository.BlogRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, blogRepo *repository.BlogRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
	}
}

// Create 发表评论
func (s *CommentService) Create(userID, blogID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	content := strings.TrimSpace(req.Comment)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if err := s.ensureBlog(blogID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:  userID,
		BlogID:  blogID,
		Comment: content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	return s.reload(comment.ID)
}

// Update 作者修改评论，归属检查和写入是同一条 SQL
func (s *CommentService) Update(userID, commentID int64, req *dto.UpdateCommentRequest) (*dto.CommentItem, error) {
	content := strings.TrimSpace(req.Comment)
	if content == "" {
		return nil, ErrEmptyComment
	}
	updated, err := s.commentRepo.UpdateOwned(commentID, userID, content)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, s.missOrForbidden(commentID)
	}

	return s.reload(commentID)
}

// Delete 作者删除评论
func (s *CommentService) Delete(userID, commentID int64) error {
	deleted, err := s.commentRepo.DeleteOwned(commentID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return s.missOrForbidden(commentID)
	}
	return nil
}

// ListByBlogID 博客评论列表
func (s *CommentService) ListByBlogID(blogID int64, page, pageSize int) ([]*dto.CommentItem, int64, error) {
	if err := s.ensureBlog(blogID); err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	comments, total, err := s.commentRepo.ListByBlogID(blogID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.CommentItem, len(comments))
	for i, c := range comments {
		items[i] = toCommentItem(c)
	}
	return items, total, nil
}

func (s *CommentService) ensureBlog(blogID int64) error {
	if _, err := s.blogRepo.GetByID(blogID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}
	return nil
}

// missOrForbidden 条件写未命中时区分评论不存在和不是本人
func (s *CommentService) missOrForbidden(commentID int64) error {
	if _, err := s.commentRepo.GetByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return ErrCommentPermission
}

func (s *CommentService) reload(commentID int64) (*dto.CommentItem, error) {
	comment, err := s.commentRepo.GetByIDWithUser(commentID)
	if err != nil {
		return nil, err
	}
	return toCommentItem(comment), nil
}

func toCommentItem(c *model.Comment) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:        c.ID,
		BlogID:    c.BlogID,
		Comment:   c.Comment,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
	if c.User != nil {
		item.User = &dto.CommentUser{
			ID:        c.User.ID,
			Username:  c.User.Username,
			AvatarURL: c.User.AvatarURL,
		}
	}
	return item
}
