package oss

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/qs3c/blogmind_server/config"
)

// 图片目录
const (
	FolderCovers  = "covers"
	FolderAvatars = "avatars"
)

type Client struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	cdnDomain  string
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
	}, nil
}

// UploadImage 上传图片到 folder/ownerID/ 下，返回访问 URL
func (c *Client) UploadImage(folder string, ownerID int64, data []byte, ext string) (string, error) {
	objectKey := ObjectKey(folder, ownerID, ext, time.Now())

	err := c.bucket.PutObject(objectKey, bytes.NewReader(data), oss.ContentType(ContentType(ext)))
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return c.GetURL(objectKey), nil
}

// Delete 删除文件
func (c *Client) Delete(objectKey string) error {
	if err := c.bucket.DeleteObject(objectKey); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetURL 获取文件访问 URL
func (c *Client) GetURL(objectKey string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", c.cdnDomain, objectKey)
	}
	endpoint := strings.TrimPrefix(strings.TrimPrefix(c.client.Config.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", c.bucketName, endpoint, objectKey)
}

// ExtractObjectKey 从 URL 中提取 object key
func (c *Client) ExtractObjectKey(url string) string {
	if c.cdnDomain != "" {
		prefix := fmt.Sprintf("https://%s/", c.cdnDomain)
		if strings.HasPrefix(url, prefix) {
			return url[len(prefix):]
		}
	}

	// https://bucket-name.endpoint/path/to/object
	parts := strings.Split(url, "/")
	if len(parts) >= 4 {
		return strings.Join(parts[3:], "/")
	}

	return path.Base(url)
}

// ObjectKey folder/ownerID/unixnano.ext
func ObjectKey(folder string, ownerID int64, ext string, at time.Time) string {
	return fmt.Sprintf("%s/%d/%d%s", folder, ownerID, at.UnixNano(), strings.ToLower(ext))
}

// ContentType 根据扩展名获取 Content-Type
func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
