package structs

import (
	"encoding/json"
	"time"
)

const (
	// defaults applied when a caller promotes a staged record without
	// setting these. A TTL may be explicitly negative, meaning "keep
	// nothing"; only zero is treated as unset.
	defaultTimeoutSeconds    = 72 * 60 * 60
	defaultResultTTLSeconds  = 7 * 24 * 60 * 60
	defaultFailureTTLSeconds = 14 * 24 * 60 * 60
)

// SubmitSpec are fields that can be set when a staged record is promoted
type SubmitSpec struct {
	// TimeoutSeconds caps the wall time of the external process. Past it
	// the process tree is killed and the job fails with a timeout error.
	TimeoutSeconds int64 `json:"timeout_seconds"`

	// ResultTTLSeconds is how long the job's log history is retained
	// after a successful run. Non-positive deletes it on finalize.
	ResultTTLSeconds int64 `json:"result_ttl_seconds"`

	// FailureTTLSeconds is how long the job's log history is retained
	// after a failed or stopped run.
	FailureTTLSeconds int64 `json:"failure_ttl_seconds"`

	// Meta is optional caller metadata. The executing worker owns this
	// map once the job starts and overwrites its well-known keys.
	Meta map[string]string `json:"meta"`
}

// Sanitize fills in defaults for anything unset (or nonsense).
func (s *SubmitSpec) Sanitize() {
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = defaultTimeoutSeconds
	}
	if s.ResultTTLSeconds == 0 {
		s.ResultTTLSeconds = defaultResultTTLSeconds
	}
	if s.FailureTTLSeconds == 0 {
		s.FailureTTLSeconds = defaultFailureTTLSeconds
	}
	if s.Meta == nil {
		s.Meta = map[string]string{}
	}
}

// Job is a submitted unit of work wrapping one external process invocation.
type Job struct {
	// SubmitSpec are fields that can be set when the job is created
	SubmitSpec `json:",inline"`

	// ID is a unique identifier for this job
	ID string `json:"id"`

	// Status is the current status of this job
	Status Status `json:"status"`

	// Args is the parameter bundle captured from the staged record. It is
	// opaque to everything except the worker, which decodes it to a RunSpec.
	Args json.RawMessage `json:"args"`

	// EnqueuedAt is the time this job was accepted unix time in seconds
	EnqueuedAt int64 `json:"enqueued_at"`

	// StartedAt is the time a worker picked this job up, 0 until then
	StartedAt int64 `json:"started_at"`

	// EndedAt is the time this job reached a terminal status, 0 until then
	EndedAt int64 `json:"ended_at"`

	// Result is the results directory announced by the process, set on success.
	Result string `json:"result"`

	// Error describes why the job failed or was stopped.
	Error string `json:"error"`

	// StopRequested is set when a caller asks for the job to stop; the
	// executing worker observes it at its next checkpoint.
	StopRequested bool `json:"stop_requested,omitempty"`
}

func (j *Job) Timeout() time.Duration {
	return time.Duration(j.TimeoutSeconds) * time.Second
}

func (j *Job) ResultTTL() time.Duration {
	return time.Duration(j.ResultTTLSeconds) * time.Second
}

func (j *Job) FailureTTL() time.Duration {
	return time.Duration(j.FailureTTLSeconds) * time.Second
}
