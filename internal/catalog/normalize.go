package catalog

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a chapter or chapter-list payload in neither
// of the two known wire shapes.
var ErrMalformedResponse = errors.New("catalog: malformed response")

// ChapterRef is one entry of a normalized chapter list.
type ChapterRef struct {
	Link  string
	Title string
}

// NormalizeChapterList maps the two chapter-list wire shapes onto one:
// either the payload carries a top-level "chapters" array (plus a
// redundant "ok" flag that gets dropped), or the whole record is nested
// under "mixToc".
func NormalizeChapterList(doc map[string]any) (map[string]any, error) {
	if _, ok := doc["chapters"]; ok {
		out := make(map[string]any, len(doc))
		for k, v := range doc {
			if k == "ok" {
				continue
			}
			out[k] = v
		}
		return out, nil
	}

	if v, ok := doc["mixToc"]; ok {
		inner, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: mixToc is not an object", ErrMalformedResponse)
		}
		return inner, nil
	}

	return nil, fmt.Errorf("%w: neither chapters nor mixToc present", ErrMalformedResponse)
}

// NormalizeChapter maps the two chapter wire shapes onto one record with
// a "content" field: either the chapter is flat with "title"+"cpContent",
// or nested under "chapter" with a "body" field. The caller attaches the
// originating link afterwards; the wire payload does not reliably carry it.
func NormalizeChapter(doc map[string]any) (map[string]any, error) {
	if _, ok := doc["title"]; ok {
		out := make(map[string]any, len(doc))
		for k, v := range doc {
			if k == "cpContent" {
				continue
			}
			out[k] = v
		}
		out["content"] = doc["cpContent"]
		return out, nil
	}

	if v, ok := doc["chapter"]; ok {
		inner, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: chapter is not an object", ErrMalformedResponse)
		}
		out := make(map[string]any, len(inner))
		for k, v := range inner {
			if k == "body" {
				continue
			}
			out[k] = v
		}
		out["content"] = inner["body"]
		return out, nil
	}

	return nil, fmt.Errorf("%w: neither title nor chapter present", ErrMalformedResponse)
}

// ChapterRefs extracts the ordered chapter links from a normalized
// chapter list. Entries without a link are dropped.
func ChapterRefs(toc map[string]any) []ChapterRef {
	items, ok := toc["chapters"].([]any)
	if !ok {
		return nil
	}

	refs := make([]ChapterRef, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		link, _ := m["link"].(string)
		if link == "" {
			continue
		}
		title, _ := m["title"].(string)
		refs = append(refs, ChapterRef{Link: link, Title: title})
	}
	return refs
}
