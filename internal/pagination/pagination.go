// Package pagination turns store cursor queries into the external pagination
// contract: a fixed page ceiling, an opaque round-trippable cursor query
// parameter, and the {items, count, next} collection envelope.
package pagination

import (
	"fmt"
	"strings"
	"unicode"

	"envelopes/internal/store"
)

// PageLimit is the page size ceiling for every paginated listing. It is a
// system constant, independent of client input.
const PageLimit = 5

// Collection is the wire envelope for a listed collection. Next is present
// only when more results exist past this page.
type Collection[T any] struct {
	Items []T    `json:"items"`
	Count int    `json:"count"`
	Next  string `json:"next,omitempty"`
}

// NormalizeCursor prepares a cursor arriving as a query parameter for the
// store. The transport layer has already percent-decoded the value and turned
// '+' into spaces, so whitespace is mapped back to '+' first; the result is
// then escaped the way encodeURI would, leaving reserved punctuation such as
// '=', '+', and '/' untouched so nothing is encoded twice. A naive
// space-to-%20 re-encoding produces tokens the store rejects.
func NormalizeCursor(raw string) string {
	restored := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '+'
		}
		return r
	}, raw)
	return escapeURI(restored)
}

// escapeURI percent-encodes a string preserving reserved characters and
// unreserved marks, matching JavaScript's encodeURI byte for byte.
func escapeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriSafe(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func uriSafe(c byte) bool {
	if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case ';', ',', '/', '?', ':', '@', '&', '=', '+', '$',
		'-', '_', '.', '!', '~', '*', '\'', '(', ')', '#':
		return true
	}
	return false
}

// NextURL builds the continuation link for a page from the request's own
// resolved base URL and the store's end cursor.
func NextURL(baseURL, endCursor string) string {
	return baseURL + "?cursor=" + endCursor
}

// NewCollection builds the collection envelope around one page. The count is
// supplied by the caller: the reconciled total for paginated listings, the
// item count for unbounded ones. The two are not guaranteed mutually
// consistent under concurrent writes.
func NewCollection[T any](items []T, count int, info store.RunInfo, baseURL string) Collection[T] {
	if items == nil {
		items = []T{}
	}
	c := Collection[T]{Items: items, Count: count}
	if info.MoreResults != store.NoMoreResults {
		c.Next = NextURL(baseURL, info.EndCursor)
	}
	return c
}
