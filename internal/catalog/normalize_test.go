package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeChapterList(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]any
		want    map[string]any
		wantErr bool
	}{
		{
			name: "flat_shape_drops_ok",
			in: map[string]any{
				"ok":       true,
				"_id":      "507f1f77bcf86cd799439011",
				"book":     "507f1f77bcf86cd799439012",
				"chapters": []any{map[string]any{"link": "l1", "title": "t1"}},
			},
			want: map[string]any{
				"_id":      "507f1f77bcf86cd799439011",
				"book":     "507f1f77bcf86cd799439012",
				"chapters": []any{map[string]any{"link": "l1", "title": "t1"}},
			},
		},
		{
			name: "mix_toc_shape_unwrapped",
			in: map[string]any{
				"ok": true,
				"mixToc": map[string]any{
					"_id":      "507f1f77bcf86cd799439011",
					"book":     "507f1f77bcf86cd799439012",
					"chapters": []any{map[string]any{"link": "l1"}},
				},
			},
			want: map[string]any{
				"_id":      "507f1f77bcf86cd799439011",
				"book":     "507f1f77bcf86cd799439012",
				"chapters": []any{map[string]any{"link": "l1"}},
			},
		},
		{
			name:    "unknown_shape",
			in:      map[string]any{"something": "else"},
			wantErr: true,
		},
		{
			name:    "mix_toc_not_an_object",
			in:      map[string]any{"mixToc": "nope"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeChapterList(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "ok")
			assert.NotContains(t, got, "mixToc")
		})
	}
}

func TestNormalizeChapter(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]any
		want    map[string]any
		wantErr bool
	}{
		{
			name: "flat_shape_renames_cp_content",
			in:   map[string]any{"title": "ch1", "cpContent": "text one"},
			want: map[string]any{"title": "ch1", "content": "text one"},
		},
		{
			name: "nested_shape_renames_body",
			in: map[string]any{
				"ok":      true,
				"chapter": map[string]any{"title": "ch1", "body": "text one", "isVip": false},
			},
			want: map[string]any{"title": "ch1", "content": "text one", "isVip": false},
		},
		{
			name:    "unknown_shape",
			in:      map[string]any{"paragraphs": []any{}},
			wantErr: true,
		},
		{
			name:    "chapter_not_an_object",
			in:      map[string]any{"chapter": 42},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeChapter(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, got, "content")
			assert.NotContains(t, got, "cpContent")
			assert.NotContains(t, got, "body")
		})
	}
}

func TestChapterRefs(t *testing.T) {
	toc := map[string]any{
		"chapters": []any{
			map[string]any{"link": "l1", "title": "t1"},
			map[string]any{"title": "no link, dropped"},
			map[string]any{"link": "l2"},
		},
	}

	refs := ChapterRefs(toc)
	require.Len(t, refs, 2)
	assert.Equal(t, ChapterRef{Link: "l1", Title: "t1"}, refs[0])
	assert.Equal(t, ChapterRef{Link: "l2"}, refs[1])

	assert.Nil(t, ChapterRefs(map[string]any{}))
}
