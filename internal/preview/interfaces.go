package preview

import (
	"context"
	"time"
)

// Fetcher retrieves at most MaxFetchBytes of a page body as valid UTF-8 text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Parser extracts MetaData from an HTML document. The document may be
// truncated mid-stream; parsing is best-effort.
type Parser interface {
	Parse(text string) (MetaData, error)
}

// Cache memoizes outcomes keyed by the raw URL string with TTL semantics.
// Implementations must be safe for concurrent Get and Insert.
type Cache interface {
	Get(key string) (Outcome, bool)
	Insert(key string, outcome Outcome)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
