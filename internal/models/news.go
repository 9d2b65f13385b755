package models

// NewsItem is one entry of the sentiment digest for a symbol.
// Digests are most-recent-relevant first and capped at 5 entries.
type NewsItem struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Summary string `json:"summary"` // HTML-stripped, truncated to 100 chars
}
