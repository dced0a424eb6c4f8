package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novelhub/internal/catalog"
	"novelhub/internal/crawler"
	"novelhub/pkg/config"
	"novelhub/pkg/store"
)

// fetch-book downloads one book in full: metadata, chapter list and every
// chapter's text, plus the combined text artifact.
//
//	fetch-book [-force] <book-id>
func main() {
	force := flag.Bool("force", false, "re-download even if the book is already stored")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fetch-book [-force] <book-id>")
		os.Exit(2)
	}
	bookID := flag.Arg(0)

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
		_ = st.Close(closeCtx)
	}()

	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure indexes failed: %v", err)
	}

	if !*force {
		exists, err := st.HasBook(ctx, bookID)
		if err != nil {
			log.Fatalf("existence check failed: %v", err)
		}
		if exists {
			log.Printf("book %s already stored, use -force to re-download", bookID)
			return
		}
	}

	api := catalog.NewClient(cfg.CatalogBaseURL, cfg.ChapterBaseURL, cfg.MaxInFlight)
	api.HTTP.Timeout = cfg.HTTPTimeout

	book, err := api.BookInfo(ctx, bookID)
	if err != nil {
		log.Fatalf("book info failed: %v", err)
	}

	cr := crawler.New(api, st, cfg.DownloadDir)
	if !cr.DownloadBook(ctx, book, true) {
		log.Fatalf("no chapter list for book %s", bookID)
	}

	if err := st.UpsertBook(ctx, book); err != nil {
		log.Fatalf("persist book failed: %v", err)
	}

	log.Printf("done: %d chapters stored, %d skipped",
		cr.Stats.ChaptersStored.Load(), cr.Stats.ChaptersSkipped.Load())
}
