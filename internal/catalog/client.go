package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

// Marker the upstream API embeds in error bodies once a client version
// has been retired.
const versionRetiredMarker = "你正在使用的版本已不再提供支持"

// Client talks to the remote novel-catalog API and the separate
// chapter-content API. A single weighted semaphore bounds the total
// number of in-flight requests across all goroutines sharing the client,
// so one Client is meant to be constructed at startup and passed around.
type Client struct {
	BaseURL        string
	ChapterBaseURL string
	HTTP           *http.Client

	sem *semaphore.Weighted
}

// NewClient creates a Client with at most maxInFlight concurrent requests.
func NewClient(baseURL, chapterBaseURL string, maxInFlight int64) *Client {
	if maxInFlight <= 0 {
		maxInFlight = 1000
	}
	return &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		ChapterBaseURL: strings.TrimRight(chapterBaseURL, "/"),
		HTTP:           &http.Client{Timeout: 30 * time.Second},
		sem:            semaphore.NewWeighted(maxInFlight),
	}
}

// getJSON performs one bounded GET and decodes the response body.
//
// Failures are never propagated as anything other than (nil, err): a
// transport error, a non-200 status and a logical `ok:false` payload all
// look the same to callers, which treat the error as "skip this item".
func (c *Client) getJSON(ctx context.Context, rawURL string) (map[string]any, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("catalog: acquire slot: %w", err)
	}
	defer c.sem.Release(1)

	log.Printf("[catalog] GET %s", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request %s: %w", rawURL, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("[catalog] request %s failed: %v", rawURL, err)
		return nil, fmt.Errorf("catalog: request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The API reports some errors as JSON bodies. Best effort:
		// a decode failure here must not change the nil-return contract.
		var detail map[string]any
		if decodeErr := json.NewDecoder(resp.Body).Decode(&detail); decodeErr == nil {
			if body, _ := detail["body"].(string); strings.Contains(body, versionRetiredMarker) {
				log.Printf("[catalog] request %s failed, API version no longer supported", rawURL)
			} else {
				log.Printf("[catalog] request %s failed, detail: %v", rawURL, detail)
			}
		} else {
			log.Printf("[catalog] request %s failed with status %d", rawURL, resp.StatusCode)
		}
		return nil, fmt.Errorf("catalog: request %s: status %d", rawURL, resp.StatusCode)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		log.Printf("[catalog] request %s returned undecodable body: %v", rawURL, err)
		return nil, fmt.Errorf("catalog: decode %s: %w", rawURL, err)
	}

	if ok, present := doc["ok"].(bool); present && !ok {
		log.Printf("[catalog] request %s returned ok=false: %v", rawURL, doc)
		return nil, fmt.Errorf("catalog: request %s: api reported failure", rawURL)
	}

	return doc, nil
}

// Category is one sub-grouping of books within a partition.
type Category struct {
	Name      string
	BookCount int
}

// Cats returns the sub-categories of every partition, keyed by partition
// name (male / female / picture / press).
func (c *Client) Cats(ctx context.Context) (map[string][]Category, error) {
	doc, err := c.getJSON(ctx, c.BaseURL+"/cats/lv2/statistics")
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Category, len(doc))
	for partition, v := range doc {
		items, ok := v.([]any)
		if !ok {
			continue // "ok" flag and other scalar fields
		}
		cats := make([]Category, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name, _ := m["name"].(string)
			if name == "" {
				continue
			}
			count, _ := m["bookCount"].(float64)
			cats = append(cats, Category{Name: name, BookCount: int(count)})
		}
		out[partition] = cats
	}
	return out, nil
}

// SubCats returns the raw second-level category listing.
func (c *Client) SubCats(ctx context.Context) (map[string]any, error) {
	return c.getJSON(ctx, c.BaseURL+"/cats/lv2/")
}

// CategoryQuery selects one page of one partition+category+ordering.
type CategoryQuery struct {
	Gender string // partition: male / female / picture / press
	Type   string // ordering: hot / new / reputation / over / month
	Major  string // category name from Cats
	Start  int
	Limit  int
}

// Page is one slice of a category listing. Total is the result count the
// service reports for the whole query, not for this page.
type Page struct {
	Total int
	Books []map[string]any
}

// BooksByCategory fetches one page of books. The upstream service is
// sensitive to query parameter order, so the query string is assembled by
// hand instead of through url.Values.
func (c *Client) BooksByCategory(ctx context.Context, q CategoryQuery) (*Page, error) {
	u := fmt.Sprintf("%s/book/by-categories?gender=%s&type=%s&major=%s&start=%d&limit=%d",
		c.BaseURL,
		url.QueryEscape(q.Gender),
		url.QueryEscape(q.Type),
		url.QueryEscape(q.Major),
		q.Start,
		q.Limit,
	)

	doc, err := c.getJSON(ctx, u)
	if err != nil {
		return nil, err
	}

	page := &Page{}
	if total, ok := doc["total"].(float64); ok {
		page.Total = int(total)
	}
	if items, ok := doc["books"].([]any); ok {
		page.Books = make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				page.Books = append(page.Books, m)
			}
		}
	}
	return page, nil
}

// BookInfo fetches full metadata for one book.
func (c *Client) BookInfo(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, c.BaseURL+"/book/"+url.PathEscape(id))
}

// BookTOC fetches a table-of-contents summary. The legal flag selects the
// licensed (btoc) source over the aggregated (atoc) one.
func (c *Client) BookTOC(ctx context.Context, id string, legal bool) (map[string]any, error) {
	path := "/atoc"
	if legal {
		path = "/btoc"
	}
	return c.getJSON(ctx, c.BaseURL+path+"?view=summary&book="+url.QueryEscape(id))
}

// BookChapterList fetches the mixed chapter list for one book. The result
// is one of two wire shapes; see NormalizeChapterList.
func (c *Client) BookChapterList(ctx context.Context, id string) (map[string]any, error) {
	return c.getJSON(ctx, fmt.Sprintf("%s/mix-atoc/%s?view=chapters", c.BaseURL, url.PathEscape(id)))
}

// ChapterContent fetches one chapter's text by its link. Links are full
// URLs used as opaque path segments; PathEscape keeps the colon unescaped,
// which the chapter service requires.
func (c *Client) ChapterContent(ctx context.Context, link string) (map[string]any, error) {
	return c.getJSON(ctx, c.ChapterBaseURL+"/chapter/"+url.PathEscape(link))
}
