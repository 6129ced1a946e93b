package search

import "errors"

// ErrTimeout reports a search that exceeded its time budget. Results of a
// timed-out search are incomplete and are never returned.
var ErrTimeout = errors.New("search timed out")

// SearchError represents an invalid search request.
type SearchError struct {
	Message string
}

func (e *SearchError) Error() string {
	return e.Message
}
