package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/oss"
)

var (
	ErrFileTooLarge     = errors.New("文件过大")
	ErrInvalidImage     = errors.New("仅支持 jpg / png / webp / gif 图片")
	ErrStorageNotConfig = errors.New("对象存储未配置")
)

// ImageStore 图片对象存储
type ImageStore interface {
	UploadImage(folder string, ownerID int64, data []byte, ext string) (string, error)
}

type UploadService struct {
	store ImageStore
	cfg   *config.Config
}

func NewUploadService(store ImageStore, cfg *config.Config) *UploadService {
	return &UploadService{store: store, cfg: cfg}
}

// UploadCover 上传博客封面
func (s *UploadService) UploadCover(userID int64, file io.Reader, filename string, size int64) (*dto.UploadImageResponse, error) {
	return s.upload(oss.FolderCovers, userID, file, filename, size)
}

// UploadAvatar 上传头像
func (s *UploadService) UploadAvatar(userID int64, file io.Reader, filename string, size int64) (*dto.UploadImageResponse, error) {
	return s.upload(oss.FolderAvatars, userID, file, filename, size)
}

func (s *UploadService) upload(folder string, userID int64, file io.Reader, filename string, size int64) (*dto.UploadImageResponse, error) {
	if s.store == nil {
		return nil, ErrStorageNotConfig
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowedExt(ext) {
		return nil, ErrInvalidImage
	}

	maxSize := s.cfg.Upload.MaxSize
	if maxSize > 0 && size > maxSize {
		return nil, ErrFileTooLarge
	}

	// 多读 1 字节用来发现声明大小与实际不符
	reader := file
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}

	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, ErrInvalidImage
	}

	url, err := s.store.UploadImage(folder, userID, data, ext)
	if err != nil {
		return nil, err
	}

	return &dto.UploadImageResponse{URL: url, Size: int64(len(data))}, nil
}

func (s *UploadService) allowedExt(ext string) bool {
	for _, allowed := range s.cfg.Upload.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}
