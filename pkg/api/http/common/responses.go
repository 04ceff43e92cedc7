package common

import (
	"github.com/seqward/stoker/pkg/structs"
)

// SubmitRequest promotes a staged record into a queued job, specific to HTTP.
type SubmitRequest struct {
	// StagedID names the staged record to promote. The record is consumed
	// on success.
	StagedID string `json:"staged_id"`

	structs.SubmitSpec
}

// StopResponse is the response from a stop request, specific to HTTP.
type StopResponse struct {
	// Message says what the stop amounted to: jobs that already ended
	// report a no-op, queued jobs stop immediately, started jobs stop at
	// the worker's next checkpoint.
	Message string `json:"message"`
}

// RemovedResponse is the response from a delete request, specific to HTTP.
type RemovedResponse struct {
	// Removed is false when there was nothing to delete.
	Removed bool `json:"removed"`
}
