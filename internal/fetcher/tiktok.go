package fetcher

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TiktokFetcher 抓取 TikTok 主页上带 data-e2e 标记的粉丝计数元素
type TiktokFetcher struct {
	engine  *Engine
	pageURL string
}

func NewTiktokFetcher(engine *Engine, pageURL string) *TiktokFetcher {
	return &TiktokFetcher{engine: engine, pageURL: pageURL}
}

func (s *TiktokFetcher) FetchFollowersCount(ctx context.Context) (int, error) {
	doc, err := s.engine.RenderPage(ctx, s.pageURL, `strong[data-e2e="followers-count"]`)
	if err != nil {
		return 0, err
	}
	return extractTiktokFollowers(doc)
}

// 元素缺失时按 0 处理而非报错，TikTok 的未登录页偶尔不渲染该节点
func extractTiktokFollowers(doc *goquery.Document) (int, error) {
	el := doc.Find(`strong[data-e2e="followers-count"]`).First()
	if el.Length() == 0 {
		return 0, nil
	}
	return ParseCount(strings.TrimSpace(el.Text()))
}
