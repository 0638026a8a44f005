package request

// WatchlistEntry is one watchlist item in a save request.
type WatchlistEntry struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// SaveWatchlistRequest replaces a user's entire watchlist. Either Items or
// Text is supplied; Text uses the line format "Name=Symbol" (or a bare
// symbol per line) and takes precedence when both are present.
type SaveWatchlistRequest struct {
	Items []WatchlistEntry `json:"items"`
	Text  string           `json:"text"`
}
