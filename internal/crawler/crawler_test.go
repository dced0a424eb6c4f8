package crawler

import (
	"context"
	"errors"
	"sync"
	"time"

	"novelhub/internal/catalog"
)

// fakeCatalog serves canned pages, chapter lists and chapters, recording
// what was asked for.
type fakeCatalog struct {
	mu sync.Mutex

	cats       map[string][]catalog.Category
	pages      map[int]*catalog.Page // keyed by start offset
	pageStarts []int

	tocs     map[string]map[string]any // keyed by book id
	tocCalls []string

	chapters     map[string]map[string]any // keyed by link
	chapterDelay map[string]time.Duration
	chapterErr   map[string]bool
	chapterCalls []string
}

var errFakeUnavailable = errors.New("unavailable")

func (f *fakeCatalog) Cats(ctx context.Context) (map[string][]catalog.Category, error) {
	if f.cats == nil {
		return nil, errFakeUnavailable
	}
	return f.cats, nil
}

func (f *fakeCatalog) BooksByCategory(ctx context.Context, q catalog.CategoryQuery) (*catalog.Page, error) {
	f.mu.Lock()
	f.pageStarts = append(f.pageStarts, q.Start)
	f.mu.Unlock()

	page, ok := f.pages[q.Start]
	if !ok {
		return nil, errFakeUnavailable
	}
	return page, nil
}

func (f *fakeCatalog) BookChapterList(ctx context.Context, bookID string) (map[string]any, error) {
	f.mu.Lock()
	f.tocCalls = append(f.tocCalls, bookID)
	f.mu.Unlock()

	toc, ok := f.tocs[bookID]
	if !ok {
		return nil, errFakeUnavailable
	}
	return toc, nil
}

func (f *fakeCatalog) ChapterContent(ctx context.Context, link string) (map[string]any, error) {
	f.mu.Lock()
	f.chapterCalls = append(f.chapterCalls, link)
	f.mu.Unlock()

	if d := f.chapterDelay[link]; d > 0 {
		time.Sleep(d)
	}
	if f.chapterErr[link] {
		return nil, errFakeUnavailable
	}
	ch, ok := f.chapters[link]
	if !ok {
		return nil, errFakeUnavailable
	}
	return ch, nil
}

// fakeStore mirrors the gateway's two write policies in memory: book and
// chapter-list writes replace, chapter writes stick with the first value.
type fakeStore struct {
	mu sync.Mutex

	books        map[string]map[string]any // keyed by id
	chapterLists map[string]map[string]any // keyed by list id
	chapterDocs  map[string]map[string]any // keyed by link, first write wins
	runs         []map[string]any
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:        map[string]map[string]any{},
		chapterLists: map[string]map[string]any{},
		chapterDocs:  map[string]map[string]any{},
	}
}

func (f *fakeStore) HasBook(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.books[id]
	return ok, nil
}

func (f *fakeStore) UpsertBook(ctx context.Context, doc map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := doc["_id"].(string)
	f.books[id] = doc
	return nil
}

func (f *fakeStore) UpsertChapterList(ctx context.Context, doc map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := doc["_id"].(string)
	f.chapterLists[id] = doc
	return nil
}

func (f *fakeStore) InsertChapterIfAbsent(ctx context.Context, doc map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, _ := doc["link"].(string)
	if _, ok := f.chapterDocs[link]; ok {
		return nil
	}
	f.chapterDocs[link] = doc
	return nil
}

func (f *fakeStore) RecordRun(ctx context.Context, doc map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, doc)
	return nil
}
