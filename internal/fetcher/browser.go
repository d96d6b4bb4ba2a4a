package fetcher

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// Engine 无头浏览器引擎。浏览器进程全局唯一，
// 每次抓取开独立标签页，互不共享会话。
type Engine struct {
	opts       *Options
	browserCtx context.Context
	cancel     context.CancelFunc
}

// NewEngine 在进程启动时拉起浏览器引擎
func NewEngine(opts *Options) (*Engine, error) {
	o := opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("accept-lang", o.AcceptLanguage),
		chromedp.UserAgent(o.UserAgent),
	)

	allocCtx, _ := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		cancel()
		return nil, fmt.Errorf("浏览器引擎启动失败，请检查是否安装 Chrome: %w", err)
	}

	return &Engine{opts: o, browserCtx: browserCtx, cancel: cancel}, nil
}

// RenderPage 渲染页面并返回解析后的文档。
// readySelector 为目标元素的就绪条件，轮询等待而非固定休眠；
// 超过就绪窗口仍未出现时继续提取，由后备策略兜底，
// NavigateTimeout 是整次渲染的硬上限。
func (e *Engine) RenderPage(ctx context.Context, pageURL, readySelector string) (*goquery.Document, error) {
	tabCtx, cancelTab := chromedp.NewContext(e.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, e.opts.NavigateTimeout)
	defer cancelTimeout()

	go func() {
		select {
		case <-ctx.Done():
			cancelTimeout()
		case <-tabCtx.Done():
		}
	}()

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	); err != nil {
		return nil, errors.Wrapf(ErrFetchFailed, "打开页面 %s: %v", pageURL, err)
	}

	if readySelector != "" {
		if err := e.pollSelector(tabCtx, readySelector); err != nil {
			log.WarnContext(ctx, "目标元素未就绪，尝试直接提取",
				"url", pageURL, "selector", readySelector)
		}
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, errors.Wrapf(ErrFetchFailed, "读取页面内容 %s: %v", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrapf(ErrFetchFailed, "解析页面 %s: %v", pageURL, err)
	}
	return doc, nil
}

// pollSelector 以 250ms 间隔轮询元素是否出现，受 ReadyTimeout 约束
func (e *Engine) pollSelector(tabCtx context.Context, selector string) error {
	deadline := time.Now().Add(e.opts.ReadyTimeout)
	script := fmt.Sprintf("document.querySelector(%q) !== null", selector)

	for {
		var found bool
		if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &found)); err != nil {
			return err
		}
		if found {
			return nil
		}
		if time.Now().After(deadline) {
			return context.DeadlineExceeded
		}

		select {
		case <-tabCtx.Done():
			return tabCtx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

func (e *Engine) Close() {
	if e.cancel != nil {
		e.cancel()
	}
}
