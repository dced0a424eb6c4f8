package crawler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Run performs one full sweep: every configured partition, every
// sub-category the statistics endpoint reports for it, every configured
// result ordering. Categories are crawled strictly sequentially. A run
// record with counters is upserted into the store when the sweep ends.
func (c *Crawler) Run(ctx context.Context, partitions, listTypes []string) error {
	runID := uuid.NewString()
	started := time.Now().UTC()
	log.Printf("[crawler] run %s started", runID)

	cats, err := c.API.Cats(ctx)
	if err != nil {
		return fmt.Errorf("crawler: category statistics: %w", err)
	}

	for _, partition := range partitions {
		subs := cats[partition]
		if len(subs) == 0 {
			log.Printf("[crawler] partition %s has no categories", partition)
			continue
		}
		for _, sub := range subs {
			for _, listType := range listTypes {
				if ctx.Err() != nil {
					return c.finishRun(runID, started, ctx.Err())
				}
				c.DownloadCategory(ctx, partition, sub.Name, listType)
			}
		}
	}

	return c.finishRun(runID, started, nil)
}

func (c *Crawler) finishRun(runID string, started time.Time, cause error) error {
	record := map[string]any{
		"_id":              runID,
		"started_at":       started,
		"finished_at":      time.Now().UTC(),
		"books_added":      c.Stats.BooksAdded.Load(),
		"books_skipped":    c.Stats.BooksSkipped.Load(),
		"chapters_stored":  c.Stats.ChaptersStored.Load(),
		"chapters_skipped": c.Stats.ChaptersSkipped.Load(),
	}
	if cause != nil {
		record["interrupted"] = cause.Error()
	}

	// Bookkeeping writes use a fresh context: the sweep context may
	// already be cancelled when we get here.
	recordCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Store.RecordRun(recordCtx, record); err != nil {
		log.Printf("[crawler] record run %s failed: %v", runID, err)
	}

	log.Printf("[crawler] run %s finished: %d books added, %d skipped, %d chapters stored, %d skipped",
		runID,
		c.Stats.BooksAdded.Load(),
		c.Stats.BooksSkipped.Load(),
		c.Stats.ChaptersStored.Load(),
		c.Stats.ChaptersSkipped.Load(),
	)
	return cause
}
