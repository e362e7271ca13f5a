package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/qs3c/blogmind_server/config"
)

// UnsplashClient Unsplash 图片搜索
type UnsplashClient struct {
	endpoint  string
	accessKey string
	perPage   int
	http      *http.Client
}

func NewUnsplashClient(cfg *config.ImageSearchConfig) *UnsplashClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 5
	}

	return &UnsplashClient{
		endpoint:  cfg.Endpoint,
		accessKey: cfg.AccessKey,
		perPage:   perPage,
		http:      &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Total   int `json:"total"`
	Results []struct {
		ID   string `json:"id"`
		URLs struct {
			Regular string `json:"regular"`
			Full    string `json:"full"`
		} `json:"urls"`
	} `json:"results"`
}

// Search 按关键词搜索，返回图片 URL 列表（可能为空）
func (c *UnsplashClient) Search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(c.perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("image search error %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode image search response: %w", err)
	}

	urls := make([]string, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		switch {
		case r.URLs.Regular != "":
			urls = append(urls, r.URLs.Regular)
		case r.URLs.Full != "":
			urls = append(urls, r.URLs.Full)
		}
	}
	return urls, nil
}
