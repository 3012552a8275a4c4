package domain

// Commit represents a repository commit. CommittedDate is kept as the raw
// ISO-8601 text so that aggregation decides how to treat bad timestamps.
type Commit struct {
	ID            string `json:"id"`
	ShortID       string `json:"shortId"`
	Title         string `json:"title"`
	AuthorName    string `json:"authorName"`
	CommittedDate string `json:"committedDate"`
}

// DayBucket counts commits made on one weekday.
type DayBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
