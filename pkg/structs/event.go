package structs

// Completion announces a job outcome on the notification channel.
// Delivery is live-only: late subscribers miss past events.
type Completion struct {
	// JobID is the job that terminated
	JobID string `json:"job_id"`

	// Succeeded is true only for finished jobs
	Succeeded bool `json:"succeeded"`

	// Summary is a short human readable outcome line
	Summary string `json:"summary"`

	// At is the time the event was published unix time in seconds
	At int64 `json:"at"`
}
