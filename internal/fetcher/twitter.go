package fetcher

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	twitterHrefRe  = regexp.MustCompile(`(?i)/(verified_)?followers`)
	twitterCountRe = regexp.MustCompile(`(?i)([\d,.]+[KM]?)\s+Followers`)
)

// TwitterFetcher 抓取 Twitter/X 主页的粉丝数
type TwitterFetcher struct {
	engine  *Engine
	pageURL string
}

func NewTwitterFetcher(engine *Engine, pageURL string) *TwitterFetcher {
	return &TwitterFetcher{engine: engine, pageURL: pageURL}
}

func (s *TwitterFetcher) FetchFollowersCount(ctx context.Context) (int, error) {
	doc, err := s.engine.RenderPage(ctx, s.pageURL, `a[href*="followers"]`)
	if err != nil {
		return 0, err
	}
	return extractTwitterFollowers(doc)
}

// extractTwitterFollowers 优先取 followers 链接里数字与 "Followers"
// 相邻的文本，失败时回退 data-testid 标记的计数元素
func extractTwitterFollowers(doc *goquery.Document) (int, error) {
	var count int
	var found bool

	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if !twitterHrefRe.MatchString(href) {
			return true
		}

		// 数字和 "Followers" 分属不同 span，拼接后整体匹配
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if m := twitterCountRe.FindStringSubmatch(text); m != nil {
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

	el := doc.Find(`[data-testid="followersCount"]`).First()
	if el.Length() > 0 {
		if n, err := ParseCount(strings.TrimSpace(el.Text())); err == nil {
			return n, nil
		}
	}

	return 0, ErrCountNotFound
}
