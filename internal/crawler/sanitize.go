package crawler

import "strings"

// Characters that break paths on common filesystems, swapped for their
// full-width lookalikes (or a space where none reads well).
var nameReplacer = strings.NewReplacer(
	"/", "／",
	"?", "？",
	":", "：",
	"*", "＊",
	`"`, " ",
	"|", " ",
)

// SanitizeName makes a book title or category name safe as a single
// path segment.
func SanitizeName(s string) string {
	return nameReplacer.Replace(s)
}
