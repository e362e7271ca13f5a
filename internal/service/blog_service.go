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
	ErrBlogNotFound   = errors.New("博客不存在")
	ErrBlogPermission = errors.New("无权操作此博客")
)

const maxPageSize = 100

type BlogService struct {
	blogRepo *repository.BlogRepository
	likeRepo *repository.LikeRepository
}

func NewBlogService(blogRepo *repository.BlogRepository, likeRepo *repository.LikeRepository) *BlogService {
	return &BlogService{
		blogRepo: blogRepo,
		likeRepo: likeRepo,
	}
}

// Create 手动发布博客
func (s *BlogService) Create(userID int64, req *dto.CreateBlogRequest) (*dto.BlogItem, error) {
	heading := strings.TrimSpace(req.Heading)
	if heading == "" {
		return nil, ErrInvalidHeading
	}

	blog := &model.Blog{
		AuthorID:    userID,
		Heading:     heading,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := s.blogRepo.Create(blog); err != nil {
		return nil, err
	}

	return toBlogItem(blog, nil, 0, 0, false), nil
}

// Get 博客详情；viewerID 为 nil 表示未登录
func (s *BlogService) Get(blogID int64, viewerID *int64) (*dto.BlogItem, error) {
	blog, err := s.blogRepo.GetByIDWithAuthor(blogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	items, err := s.decorate([]*model.Blog{blog}, viewerID)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// List 博客流，按发布时间倒序
func (s *BlogService) List(req *dto.BlogListRequest, viewerID *int64) ([]*dto.BlogItem, int64, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	blogs, total, err := s.blogRepo.List(page, pageSize, req.AuthorID)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.decorate(blogs, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListMine 我的博客
func (s *BlogService) ListMine(userID int64, page, pageSize int) ([]*dto.BlogItem, int64, error) {
	return s.List(&dto.BlogListRequest{Page: page, PageSize: pageSize, AuthorID: userID}, &userID)
}

// Update 作者修改博客
func (s *BlogService) Update(userID, blogID int64, req *dto.UpdateBlogRequest) (*dto.BlogItem, error) {
	blog, err := s.getOwned(userID, blogID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Heading != nil {
		heading := strings.TrimSpace(*req.Heading)
		if heading == "" {
			return nil, ErrInvalidHeading
		}
		fields["heading"] = heading
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}

	if len(fields) > 0 {
		if err := s.blogRepo.UpdateFields(blog.ID, fields); err != nil {
			return nil, err
		}
	}

	return s.Get(blogID, &userID)
}

// Delete 作者删除博客，点赞和评论一并删除
func (s *BlogService) Delete(userID, blogID int64) error {
	if _, err := s.getOwned(userID, blogID); err != nil {
		return err
	}
	return s.blogRepo.Delete(blogID)
}

// ToggleLike 点赞 / 取消点赞
func (s *BlogService) ToggleLike(userID, blogID int64) (*dto.LikeResponse, error) {
	if _, err := s.blogRepo.GetByID(blogID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	liked, err := s.likeRepo.Toggle(blogID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.likeRepo.CountByBlogID(blogID)
	if err != nil {
		return nil, err
	}

	return &dto.LikeResponse{Liked: liked, LikeCount: count}, nil
}

func (s *BlogService) getOwned(userID, blogID int64) (*model.Blog, error) {
	blog, err := s.blogRepo.GetByID(blogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	if blog.AuthorID != userID {
		return nil, ErrBlogPermission
	}
	return blog, nil
}

// decorate 批量补充点赞数、评论数和当前用户的点赞状态
func (s *BlogService) decorate(blogs []*model.Blog, viewerID *int64) ([]*dto.BlogItem, error) {
	ids := make([]int64, len(blogs))
	for i, b := range blogs {
		ids[i] = b.ID
	}

	stats, err := s.blogRepo.Stats(ids)
	if err != nil {
		return nil, err
	}

	liked := map[int64]bool{}
	if viewerID != nil {
		liked, err = s.likeRepo.LikedBlogIDs(*viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	items := make([]*dto.BlogItem, len(blogs))
	for i, b := range blogs {
		st := stats[b.ID]
		items[i] = toBlogItem(b, b.Author, st.LikeCount, st.CommentCount, liked[b.ID])
	}
	return items, nil
}

func toBlogItem(b *model.Blog, author *model.User, likes, comments int64, liked bool) *dto.BlogItem {
	item := &dto.BlogItem{
		ID:            b.ID,
		Heading:       b.Heading,
		Description:   b.Description,
		ImageURL:      b.ImageURL,
		IsAIGenerated: b.IsAIGenerated,
		LikeCount:     likes,
		CommentCount:  comments,
		Liked:         liked,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
	if author != nil {
		item.Author = &dto.AuthorInfo{
			ID:        author.ID,
			Username:  author.Username,
			AvatarURL: author.AvatarURL,
		}
	}
	return item
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
