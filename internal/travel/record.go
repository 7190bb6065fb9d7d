package travel

import "time"

// Outcome values stored in the search log.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// SearchRecord is one logged submission. Results themselves are never stored.
type SearchRecord struct {
	ID          int64     `json:"id"`
	Destination string    `json:"destination"`
	Date        string    `json:"date"`
	Duration    int       `json:"duration"`
	Outcome     string    `json:"outcome"`
	Hotels      int       `json:"hotels"`
	Flights     int       `json:"flights"`
	ElapsedMS   int64     `json:"elapsed_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// DestinationCount is a destination and how often it was searched.
type DestinationCount struct {
	Destination string `json:"destination"`
	Searches    int    `json:"searches"`
}
