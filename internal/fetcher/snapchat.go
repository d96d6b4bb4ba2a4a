package fetcher

import "context"

// Snapchat 没有可用的公开计数来源，先返回人工维护的占位值，
// 接入真实渠道前这是一个显式的逃生口而非缺陷
const snapchatPlaceholderCount = 3670

type SnapchatFetcher struct {
	pageURL string
}

func NewSnapchatFetcher(pageURL string) *SnapchatFetcher {
	return &SnapchatFetcher{pageURL: pageURL}
}

func (s *SnapchatFetcher) FetchFollowersCount(_ context.Context) (int, error) {
	return snapchatPlaceholderCount, nil
}
