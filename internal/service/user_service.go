package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/repository"
)

type UserService struct {
	userRepo   *repository.UserRepository
	membership *MembershipService
	uploads    *UploadService
}

func NewUserService(userRepo *repository.UserRepository, membership *MembershipService, uploads *UploadService) *UserService {
	return &UserService{
		userRepo:   userRepo,
		membership: membership,
		uploads:    uploads,
	}
}

// GetProfile 获取用户详情（含会员信息）
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return buildUserInfo(ctx, user, s.membership), nil
}

// UpdateProfile 更新用户名 / 简介
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != user.Username {
			exists, err := s.userRepo.ExistsByUsername(username)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrUsernameExists
			}
			fields["username"] = username
			user.Username = username
		}
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
		user.Bio = *req.Bio
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	return buildUserInfo(ctx, user, s.membership), nil
}

// UploadAvatar 上传头像并更新 avatar_url
func (s *UserService) UploadAvatar(userID int64, file io.Reader, filename string, size int64) (string, error) {
	resp, err := s.uploads.UploadAvatar(userID, file, filename, size)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": resp.URL}); err != nil {
		return "", err
	}

	return resp.URL, nil
}
