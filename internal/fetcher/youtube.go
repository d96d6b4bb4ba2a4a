package fetcher

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var youtubeCountRe = regexp.MustCompile(`(?i)([\d,.]+[KM]?)\s+subscribers`)

// YoutubeFetcher 抓取频道页的订阅数，口径上等同粉丝数
type YoutubeFetcher struct {
	engine  *Engine
	pageURL string
}

func NewYoutubeFetcher(engine *Engine, pageURL string) *YoutubeFetcher {
	return &YoutubeFetcher{engine: engine, pageURL: pageURL}
}

func (s *YoutubeFetcher) FetchFollowersCount(ctx context.Context) (int, error) {
	doc, err := s.engine.RenderPage(ctx, s.pageURL, "span")
	if err != nil {
		return 0, err
	}
	return extractYoutubeSubscribers(doc)
}

func extractYoutubeSubscribers(doc *goquery.Document) (int, error) {
	var count int
	var found bool

	doc.Find("span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if !strings.Contains(strings.ToLower(text), "subscribers") {
			return true
		}
		if m := youtubeCountRe.FindStringSubmatch(text); m != nil {
			if n, err := ParseCount(m[1]); err == nil {
				count, found = n, true
				return false
			}
		}
		return true
	})

	if !found {
		return 0, ErrCountNotFound
	}
	return count, nil
}
