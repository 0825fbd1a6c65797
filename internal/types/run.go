package types

import "time"

// SearchRun is the bookkeeping row for one pipeline execution.
type SearchRun struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	ConstraintsJSON  string    `json:"constraints,omitempty"`
	BoardCount       int       `json:"boardCount"`
	RetailersQueried int       `json:"retailersQueried"`
	DurationMs       int64     `json:"durationMs"`
}

// RunError records one scraper failure. Failures never abort a run; they
// ride along in the reply.
type RunError struct {
	Scraper string `json:"scraper"`
	Message string `json:"message"`
}

// RunResult is the reply shape of the run action.
type RunResult struct {
	Run    SearchRun           `json:"run"`
	Boards []BoardWithListings `json:"boards"`
	Errors []RunError          `json:"errors"`
}
