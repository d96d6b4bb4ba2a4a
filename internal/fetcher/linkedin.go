package fetcher

import (
	"context"
	"regexp"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var linkedinCountRe = regexp.MustCompile(`(?i)([\d,.]+[KM]?)\s+followers`)

// LinkedinFetcher 静态抓取，公司主页的粉丝数在未渲染的 HTML 里就有
type LinkedinFetcher struct {
	client  *resty.Client
	pageURL string
}

func NewLinkedinFetcher(client *resty.Client, pageURL string) *LinkedinFetcher {
	return &LinkedinFetcher{client: client, pageURL: pageURL}
}

func (s *LinkedinFetcher) FetchFollowersCount(ctx context.Context) (int, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.pageURL)
	if err != nil {
		return 0, errors.Wrapf(ErrFetchFailed, "请求 %s: %v", s.pageURL, err)
	}
	if resp.IsError() {
		return 0, errors.Wrapf(ErrFetchFailed, "请求 %s: 状态码 %d", s.pageURL, resp.StatusCode())
	}

	m := linkedinCountRe.FindStringSubmatch(resp.String())
	if m == nil {
		return 0, ErrCountNotFound
	}
	return ParseCount(m[1])
}
