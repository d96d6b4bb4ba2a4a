package main

import (
	"Beacon/internal/api/config"
	"Beacon/internal/fetcher"
	"Beacon/internal/model"
	"Beacon/internal/pkg/database"
	"Beacon/internal/pkg/logger"
	"Beacon/internal/repository"
	"context"
	"flag"
	"fmt"
	log "log/slog"
	"os"
	"time"
)

// 单次抓取诊断工具：
//
//	go run ./cmd/diagnose -name Facebook
//	go run ./cmd/diagnose -url https://x.com/example -source twitter
func main() {
	name := flag.String("name", "", "按平台名称诊断（需要数据库）")
	pageURL := flag.String("url", "", "直接指定主页 URL")
	source := flag.String("source", "", "数据来源类型（配合 -url 使用）")
	timeout := flag.Duration("timeout", 60*time.Second, "单次抓取超时")
	flag.Parse()

	if *name == "" && (*pageURL == "" || *source == "") {
		flag.Usage()
		os.Exit(2)
	}

	if err := config.LoadConfig(); err != nil {
		log.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger.InitLogger()
	cfg := config.Cfg

	opts := &fetcher.Options{
		UserAgent:       cfg.Fetcher.UserAgent,
		AcceptLanguage:  cfg.Fetcher.AcceptLanguage,
		NavigateTimeout: time.Duration(cfg.Fetcher.NavigateTimeoutSec) * time.Second,
		ReadyTimeout:    time.Duration(cfg.Fetcher.ReadyTimeoutSec) * time.Second,
	}

	engine, err := fetcher.NewEngine(opts)
	if err != nil {
		log.Error("failed to start browser engine", "err", err)
		os.Exit(1)
	}
	defer engine.Close()
	registry := fetcher.NewRegistry(engine, fetcher.NewHTTPClient(opts))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	targetURL, targetSource := *pageURL, model.SourceType(*source)
	if *name != "" {
		targetURL, targetSource, err = lookupPlatform(ctx, *name)
		if err != nil {
			log.Error("failed to resolve platform", "platform", *name, "err", err)
			os.Exit(1)
		}
	}

	f, err := registry.Resolve(targetSource, targetURL)
	if err != nil {
		log.Error("failed to resolve fetcher", "source", targetSource, "err", err)
		os.Exit(1)
	}

	started := time.Now()
	count, err := f.FetchFollowersCount(ctx)
	if err != nil {
		fmt.Printf("FAIL  source=%s url=%s cost=%s\n  %v\n", targetSource, targetURL, time.Since(started), err)
		os.Exit(1)
	}
	fmt.Printf("OK    source=%s url=%s cost=%s followers=%d\n", targetSource, targetURL, time.Since(started), count)
}

func lookupPlatform(ctx context.Context, name string) (string, model.SourceType, error) {
	dbCfg := config.Cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		return "", "", err
	}

	platform, err := repository.NewPlatformRepo(db).GetByName(ctx, name)
	if err != nil {
		return "", "", err
	}
	if platform == nil {
		return "", "", fmt.Errorf("平台 %q 不存在", name)
	}
	if platform.Fetcher == nil {
		return "", "", fetcher.ErrNoFetcherAssigned
	}
	return platform.PageURL, platform.Fetcher.SourceType, nil
}
