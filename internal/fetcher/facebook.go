package fetcher

import (
	"context"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

var facebookCountRe = regexp.MustCompile(`(?i)([\d,.]+[KM]?)\s+followers`)

// FacebookFetcher 渲染主页后按多级策略提取粉丝数
type FacebookFetcher struct {
	engine  *Engine
	pageURL string
}

func NewFacebookFetcher(engine *Engine, pageURL string) *FacebookFetcher {
	return &FacebookFetcher{engine: engine, pageURL: pageURL}
}

func (s *FacebookFetcher) FetchFollowersCount(ctx context.Context) (int, error) {
	doc, err := s.engine.RenderPage(ctx, s.pageURL, `a[href$="/followers/"]`)
	if err != nil {
		return 0, err
	}
	return extractFacebookFollowers(doc)
}

// extractFacebookFollowers 依次尝试三种结构，先命中者生效：
// followers 链接文本、链接内的 strong 标签、整页文本搜索
func extractFacebookFollowers(doc *goquery.Document) (int, error) {
	links := doc.Find("a").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		return regexp.MustCompile(`/followers/?$`).MatchString(href)
	})

	var count int
	var found bool

	links.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if m := facebookCountRe.FindStringSubmatch(sel.Text()); m != nil {
			if n, err := ParseCount(m[1]); err == nil {
				count, found = n, true
				return false
			}
		}
		return true
	})
	if found {
		return count, nil
	}

	links.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		strong := sel.Find("strong")
		if strong.Length() > 0 {
			if n, err := ParseCount(strong.First().Text()); err == nil {
				count, found = n, true
				return false
			}
		}
		return true
	})
	if found {
		return count, nil
	}

	// 页面结构变化时兜底搜索全文
	if m := facebookCountRe.FindStringSubmatch(doc.Text()); m != nil {
		if n, err := ParseCount(m[1]); err == nil {
			return n, nil
		}
	}

	return 0, ErrCountNotFound
}
