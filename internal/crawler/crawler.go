package crawler

import (
	"context"
	"sync/atomic"

	"novelhub/internal/catalog"
)

// Catalog is the slice of the API client the crawler needs.
type Catalog interface {
	Cats(ctx context.Context) (map[string][]catalog.Category, error)
	BooksByCategory(ctx context.Context, q catalog.CategoryQuery) (*catalog.Page, error)
	BookChapterList(ctx context.Context, bookID string) (map[string]any, error)
	ChapterContent(ctx context.Context, link string) (map[string]any, error)
}

// Store is the slice of the persistence gateway the crawler needs.
type Store interface {
	HasBook(ctx context.Context, id string) (bool, error)
	UpsertBook(ctx context.Context, doc map[string]any) error
	UpsertChapterList(ctx context.Context, doc map[string]any) error
	InsertChapterIfAbsent(ctx context.Context, doc map[string]any) error
	RecordRun(ctx context.Context, doc map[string]any) error
}

// Stats counts work done by one sweep. Chapter fetches run concurrently,
// so the counters are atomic.
type Stats struct {
	BooksAdded      atomic.Int64
	BooksSkipped    atomic.Int64
	ChaptersStored  atomic.Int64
	ChaptersSkipped atomic.Int64
}

// Crawler walks the catalog and persists what it finds. Books within a
// page are processed sequentially; the only fan-out is per-chapter inside
// one book, bounded globally by the API client's semaphore.
type Crawler struct {
	API   Catalog
	Store Store

	// DownloadDir is the base directory for per-book text artifacts.
	DownloadDir string
	// PageSize is the catalog pagination window.
	PageSize int
	// FetchContent toggles full chapter-text downloads during the sweep;
	// off means the catalog pass persists metadata and chapter lists only.
	FetchContent bool

	Stats Stats
}

func New(api Catalog, store Store, downloadDir string) *Crawler {
	return &Crawler{
		API:         api,
		Store:       store,
		DownloadDir: downloadDir,
		PageSize:    50,
	}
}

func docString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}
