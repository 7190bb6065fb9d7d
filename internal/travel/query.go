package travel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidQuery is returned when form or query-string input cannot form a SearchQuery.
var ErrInvalidQuery = errors.New("invalid search query")

// ParseQuery builds a SearchQuery from raw input fields.
// The destination is trimmed; duration must be an integer ≥ 1.
func ParseQuery(destination, date, duration string) (SearchQuery, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return SearchQuery{}, fmt.Errorf("%w: destination is required", ErrInvalidQuery)
	}

	nights, err := strconv.Atoi(strings.TrimSpace(duration))
	if err != nil {
		return SearchQuery{}, fmt.Errorf("%w: duration %q is not a number", ErrInvalidQuery, duration)
	}
	if nights < 1 {
		return SearchQuery{}, fmt.Errorf("%w: duration must be at least 1 night", ErrInvalidQuery)
	}

	return SearchQuery{
		Destination: destination,
		Date:        strings.TrimSpace(date),
		Duration:    nights,
	}, nil
}
