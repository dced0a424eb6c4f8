package crawler

import (
	"context"
	"log"

	"novelhub/internal/catalog"
)

// Cursor tracks pagination progress within one category+ordering query.
// Total is captured from the first successful page and carried forward;
// the service's later pages report drifting totals.
type Cursor struct {
	Start int
	Limit int
	Total int
}

// Next reports whether another page remains behind the cursor and
// advances it. With total=125 and limit=50 the pages requested are
// exactly start=0, 50 and 100.
func (c *Cursor) Next() bool {
	if c.Start+c.Limit >= c.Total {
		return false
	}
	c.Start += c.Limit
	return true
}

// DownloadCategory walks every page of one partition+category+ordering
// and persists each book not seen before. A failed page ends the
// category quietly: the catalog treats running past the end as an error,
// and per-item failures are skip-and-continue everywhere in this pipeline.
func (c *Crawler) DownloadCategory(ctx context.Context, partition, major, listType string) {
	log.Printf("[crawler] category %s/%s (%s)", partition, major, listType)

	cur := Cursor{Limit: c.PageSize}
	first := true

	for {
		page, err := c.API.BooksByCategory(ctx, catalog.CategoryQuery{
			Gender: partition,
			Type:   listType,
			Major:  major,
			Start:  cur.Start,
			Limit:  cur.Limit,
		})
		if err != nil {
			log.Printf("[crawler] category %s/%s page %d unavailable, stopping: %v", partition, major, cur.Start, err)
			return
		}

		if first {
			cur.Total = page.Total
			first = false
		}

		for _, book := range page.Books {
			c.processBook(ctx, partition, book)
		}

		if !cur.Next() {
			return
		}
	}
}

// processBook persists one catalog entry unless it is already stored.
func (c *Crawler) processBook(ctx context.Context, partition string, book map[string]any) {
	id := docString(book, "_id")
	title := docString(book, "title")
	if id == "" {
		log.Printf("[crawler] skip book without id: %q", title)
		return
	}

	exists, err := c.Store.HasBook(ctx, id)
	if err != nil {
		log.Printf("[crawler] existence check for %s failed: %v", id, err)
		return
	}
	if exists {
		log.Printf("[crawler] skip %s (%s), already stored", title, id)
		c.Stats.BooksSkipped.Add(1)
		return
	}

	if !c.DownloadBook(ctx, book, c.FetchContent) {
		return
	}

	book["gender"] = partition
	if err := c.Store.UpsertBook(ctx, book); err != nil {
		log.Printf("[crawler] persist book %s failed: %v", id, err)
		return
	}
	c.Stats.BooksAdded.Add(1)
}
