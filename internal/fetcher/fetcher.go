package fetcher

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// 抓取失败的原因分类，调用方按"一个失败的平台"统一处理
var (
	ErrCountNotFound = errors.New("页面上找不到粉丝数")
	ErrFetchFailed   = errors.New("页面抓取失败")
)

// Fetcher 从平台主页或 API 提取当前粉丝数的策略
type Fetcher interface {
	FetchFollowersCount(ctx context.Context) (int, error)
}

// Options 抓取器公共配置，由 config 注入
type Options struct {
	UserAgent      string
	AcceptLanguage string
	// 单次页面渲染的硬上限
	NavigateTimeout time.Duration
	// 目标元素就绪轮询的上限
	ReadyTimeout time.Duration
}

func (o *Options) withDefaults() *Options {
	out := *o
	if out.UserAgent == "" {
		out.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0 Safari/537.36"
	}
	if out.AcceptLanguage == "" {
		out.AcceptLanguage = "en-US,en;q=0.9"
	}
	if out.NavigateTimeout <= 0 {
		out.NavigateTimeout = 15 * time.Second
	}
	if out.ReadyTimeout <= 0 {
		out.ReadyTimeout = 10 * time.Second
	}
	return &out
}

// NewHTTPClient 静态抓取与 API 抓取共用的 resty 客户端，
// 带上真实浏览器的 UA 与语言头，很多目标站会拒绝默认的自动化签名
func NewHTTPClient(opts *Options) *resty.Client {
	o := opts.withDefaults()
	return resty.New().
		SetTimeout(o.NavigateTimeout).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}).
		SetHeader("User-Agent", o.UserAgent).
		SetHeader("Accept-Language", o.AcceptLanguage)
}
