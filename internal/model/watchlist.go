package model

// WatchItem is one user-curated stock on a watchlist. Symbol is always in
// normalized CODE.EXCHANGE form (e.g. 600519.SH); Name defaults to the
// symbol when the user did not supply one.
type WatchItem struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
