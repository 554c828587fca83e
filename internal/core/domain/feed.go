package domain

// FeedState is the pagination state of an incident feed.
type FeedState string

const (
	// FeedIdle means no request is outstanding and more pages may exist.
	FeedIdle FeedState = "idle"
	// FeedLoading means exactly one page request is outstanding.
	FeedLoading FeedState = "loading"
	// FeedExhausted means no further pages exist. Deletion is still allowed.
	FeedExhausted FeedState = "exhausted"
)
