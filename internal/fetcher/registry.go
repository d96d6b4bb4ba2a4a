package fetcher

import (
	"context"

	"Beacon/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var (
	ErrNoFetcherAssigned = errors.New("平台未绑定抓取器")
	ErrUnknownSource     = errors.New("未知的数据来源类型")
)

// factory 按平台主页 URL 实例化具体抓取器
type factory func(r *Registry, pageURL string) Fetcher

// 来源类型到实现的封闭映射表，新平台在这里显式登记
var factories = map[model.SourceType]factory{
	model.SourceFacebook: func(r *Registry, u string) Fetcher { return NewFacebookFetcher(r.engine, u) },
	model.SourceTwitter:  func(r *Registry, u string) Fetcher { return NewTwitterFetcher(r.engine, u) },
	model.SourceYoutube:  func(r *Registry, u string) Fetcher { return NewYoutubeFetcher(r.engine, u) },
	model.SourceTiktok:   func(r *Registry, u string) Fetcher { return NewTiktokFetcher(r.engine, u) },
	model.SourceInstagram: func(r *Registry, u string) Fetcher {
		return NewInstagramFetcher(r.client, u)
	},
	model.SourceLinkedin: func(r *Registry, u string) Fetcher {
		return NewLinkedinFetcher(r.client, u)
	},
	model.SourceSnapchat: func(_ *Registry, u string) Fetcher { return NewSnapchatFetcher(u) },
}

// Registry 抓取器调度入口，持有各实现共享的引擎与 HTTP 客户端
type Registry struct {
	engine *Engine
	client *resty.Client
}

func NewRegistry(engine *Engine, client *resty.Client) *Registry {
	return &Registry{engine: engine, client: client}
}

// Resolve 按来源类型实例化抓取器
func (r *Registry) Resolve(source model.SourceType, pageURL string) (Fetcher, error) {
	f, ok := factories[source]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSource, "%q", source)
	}
	return f(r, pageURL), nil
}

// Dispatch 解析平台绑定的抓取器并执行一次抓取，
// 未绑定抓取器的平台直接失败，不参与本轮刷新
func (r *Registry) Dispatch(ctx context.Context, platform *model.Platform) (int, error) {
	if platform.Fetcher == nil {
		return 0, errors.Wrapf(ErrNoFetcherAssigned, "平台 %s", platform.Name)
	}

	f, err := r.Resolve(platform.Fetcher.SourceType, platform.PageURL)
	if err != nil {
		return 0, err
	}
	return f.FetchFollowersCount(ctx)
}
