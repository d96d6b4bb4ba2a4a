package fetcher

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const instagramAPIBase = "https://i.instagram.com/api/v1/users/web_profile_info/"

// instagram web 端内部接口使用的固定应用标识
const instagramAppID = "936619743392459"

// InstagramFetcher 不渲染页面，直接调 web_profile_info 接口
type InstagramFetcher struct {
	client  *resty.Client
	pageURL string
	apiBase string
}

func NewInstagramFetcher(client *resty.Client, pageURL string) *InstagramFetcher {
	return &InstagramFetcher{client: client, pageURL: pageURL, apiBase: instagramAPIBase}
}

func (s *InstagramFetcher) FetchFollowersCount(ctx context.Context) (int, error) {
	username := usernameFromURL(s.pageURL)
	if username == "" {
		return 0, errors.Wrapf(ErrFetchFailed, "无法从 %s 推断用户名", s.pageURL)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("username", username).
		SetHeader("x-ig-app-id", instagramAppID).
		Get(s.apiBase)
	if err != nil {
		return 0, errors.Wrapf(ErrFetchFailed, "请求 instagram 接口: %v", err)
	}
	if resp.IsError() {
		return 0, errors.Wrapf(ErrFetchFailed, "instagram 接口状态码 %d", resp.StatusCode())
	}

	var payload struct {
		Data struct {
			User struct {
				EdgeFollowedBy struct {
					Count *int `json:"count"`
				} `json:"edge_followed_by"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return 0, errors.Wrapf(ErrFetchFailed, "解析 instagram 响应: %v", err)
	}
	if payload.Data.User.EdgeFollowedBy.Count == nil {
		return 0, errors.Wrap(ErrCountNotFound, "instagram 响应缺少 edge_followed_by.count")
	}
	return *payload.Data.User.EdgeFollowedBy.Count, nil
}

// usernameFromURL 主页 URL 的最后一段即用户名
func usernameFromURL(pageURL string) string {
	trimmed := strings.TrimRight(pageURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	return trimmed[idx+1:]
}
