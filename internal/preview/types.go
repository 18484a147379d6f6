// Package preview defines the core types shared across the link preview
// pipeline: the metadata model, the success-or-failure outcome memoized by
// the cache, and the seams between fetcher, parser and cache.
package preview

import "time"

const (
	// MaxAge is how long a cached outcome stays live.
	MaxAge = 24 * time.Hour

	// MaxAgeSeconds is MaxAge expressed for the Cache-Control header.
	MaxAgeSeconds = 86400

	// MaxFetchBytes is the hard upper bound on how much of a response body
	// is ever read and handed to the parser.
	MaxFetchBytes = 1 << 20
)

// Metatag is a single <meta> tag captured in document order. Names are not
// deduplicated; a page repeating a tag yields repeated entries.
type Metatag struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// MetaData holds everything extracted from a page. A field is nil when the
// page does not provide it. Built once per successful extraction and never
// mutated afterwards.
type MetaData struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Canonical   *string   `json:"canonical"`
	Language    *string   `json:"language"`
	RSS         *string   `json:"rss"`
	Image       *string   `json:"image"`
	AMP         *string   `json:"amp"`
	Author      *string   `json:"author"`
	Date        *string   `json:"date"`
	Metatags    []Metatag `json:"metatags"`
}

// Outcome is the result of one fetch+parse attempt, as stored in the cache.
// Exactly one of Meta or ErrText is meaningful: Meta for a success, ErrText
// (a flat human-readable message) for a failure. Failures are cached and
// replayed the same way successes are.
type Outcome struct {
	Meta    *MetaData
	ErrText string
}

// Success wraps extracted metadata into an Outcome.
func Success(meta MetaData) Outcome {
	return Outcome{Meta: &meta}
}

// Failure wraps an error message into an Outcome.
func Failure(msg string) Outcome {
	return Outcome{ErrText: msg}
}

// OK reports whether the outcome carries metadata.
func (o Outcome) OK() bool {
	return o.Meta != nil
}
