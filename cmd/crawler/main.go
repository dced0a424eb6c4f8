package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"novelhub/internal/catalog"
	"novelhub/internal/crawler"
	"novelhub/pkg/config"
	"novelhub/pkg/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.MustOpen(ctx, store.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Printf("store close error: %v", err)
		}
	}()

	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure indexes failed: %v", err)
	}

	api := catalog.NewClient(cfg.CatalogBaseURL, cfg.ChapterBaseURL, cfg.MaxInFlight)
	api.HTTP.Timeout = cfg.HTTPTimeout

	cr := crawler.New(api, st, cfg.DownloadDir)
	cr.PageSize = cfg.PageSize
	cr.FetchContent = cfg.FetchContent

	if err := cr.Run(ctx, cfg.Partitions, cfg.ListTypes); err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
}
