package utils

import (
	"strings"

	"github.com/google/uuid"
)

// Staged records and jobs draw ids from disjoint namespaces so callers
// can disambiguate by shape alone.
const (
	stagedPrefix = "stg_"
	jobPrefix    = "job_"
)

// NewRandomID returns a new opaque unique id.
func NewRandomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewStagedID returns a unique id in the staged-record namespace.
func NewStagedID() string {
	return stagedPrefix + NewRandomID()
}

// NewJobID returns a unique id in the job namespace.
func NewJobID() string {
	return jobPrefix + NewRandomID()
}

// IsStagedID reports whether id has the staged-record shape.
func IsStagedID(id string) bool {
	return strings.HasPrefix(id, stagedPrefix) && len(id) > len(stagedPrefix)
}

// IsJobID reports whether id has the job shape.
func IsJobID(id string) bool {
	return strings.HasPrefix(id, jobPrefix) && len(id) > len(jobPrefix)
}
