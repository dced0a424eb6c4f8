package crawler

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"novelhub/internal/catalog"
)

// DownloadBook fetches and persists one book's chapter list, and with
// fetchContent set also every chapter's text. The return value reports
// whether the chapter list was obtained; per-chapter failures never turn
// it false.
func (c *Crawler) DownloadBook(ctx context.Context, book map[string]any, fetchContent bool) bool {
	id := docString(book, "_id")
	title := docString(book, "title")
	log.Printf("[crawler] download book %s (%s)", title, id)

	raw, err := c.API.BookChapterList(ctx, id)
	if err != nil {
		log.Printf("[crawler] no chapter list for %s (%s): %v", title, id, err)
		return false
	}

	toc, err := catalog.NormalizeChapterList(raw)
	if err != nil {
		log.Printf("[crawler] chapter list for %s (%s): %v", title, id, err)
		return false
	}

	if err := c.Store.UpsertChapterList(ctx, toc); err != nil {
		log.Printf("[crawler] persist chapter list for %s failed: %v", id, err)
	}

	if !fetchContent {
		return true
	}

	refs := catalog.ChapterRefs(toc)

	// One goroutine per chapter; the client's semaphore is the only cap.
	// texts is indexed by submission order so the artifact preserves
	// chapter order no matter when each fetch completes.
	texts := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			texts[i] = c.fetchChapter(gctx, ref)
			return nil
		})
	}
	_ = g.Wait()

	if err := c.writeArtifact(book, texts); err != nil {
		log.Printf("[crawler] write artifact for %s failed: %v", title, err)
	}
	return true
}

// fetchChapter downloads, normalizes and persists one chapter, returning
// its text. Every failure mode is a skip: transport errors and malformed
// payloads alike yield an empty string and a log line.
func (c *Crawler) fetchChapter(ctx context.Context, ref catalog.ChapterRef) string {
	raw, err := c.API.ChapterContent(ctx, ref.Link)
	if err != nil {
		c.Stats.ChaptersSkipped.Add(1)
		return ""
	}

	chapter, err := catalog.NormalizeChapter(raw)
	if err != nil {
		log.Printf("[crawler] skip chapter %s: %v", ref.Link, err)
		c.Stats.ChaptersSkipped.Add(1)
		return ""
	}

	chapter["link"] = ref.Link
	if err := c.Store.InsertChapterIfAbsent(ctx, chapter); err != nil {
		log.Printf("[crawler] persist chapter %s failed: %v", ref.Link, err)
	}
	c.Stats.ChaptersStored.Add(1)

	text, _ := chapter["content"].(string)
	return text
}

// writeArtifact joins the fetched chapter texts with blank lines and
// writes them as one UTF-8 file named after the sanitized book title,
// under a per-category directory.
func (c *Crawler) writeArtifact(book map[string]any, texts []string) error {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if t != "" {
			parts = append(parts, t)
		}
	}

	dir := filepath.Join(c.DownloadDir, SanitizeName(docString(book, "major")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, SanitizeName(docString(book, "title"))+".txt")
	return os.WriteFile(path, []byte(strings.Join(parts, "\n\n")), 0o644)
}
