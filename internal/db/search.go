package db

// TextQuery is the input for a multi-field full-text search.
// Terms are already analyzed; the backend escapes them and ANDs them across Fields.
type TextQuery struct {
	IndexName    string
	Fields       []string
	Terms        []string
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
