package common

import (
	"strings"
)

const (
	// API_STAGED is used to stage params or list staged records
	API_STAGED = "/api/v1/staged"

	// API_STAGED_ID is used to fetch or delete one staged record
	API_STAGED_ID = "/api/v1/staged/{id}"

	// API_JOBS is used to submit staged records or list jobs
	API_JOBS = "/api/v1/jobs"

	// API_JOBS_ID is used to fetch or remove one job
	API_JOBS_ID = "/api/v1/jobs/{id}"

	// API_JOBS_STOP is used to stop a job
	API_JOBS_STOP = "/api/v1/jobs/{id}/stop"

	// API_JOBS_RERUN is used to stage a new record from an ended job
	API_JOBS_RERUN = "/api/v1/jobs/{id}/rerun"

	// API_JOBS_LOGS streams a job's log records over a websocket
	API_JOBS_LOGS = "/api/v1/jobs/{id}/logs"
)

// WithID fills the {id} placeholder of a route, so clients and server
// handlers agree on paths.
func WithID(route, id string) string {
	return strings.Replace(route, "{id}", id, 1)
}
