package structs

import (
	"strings"
)

type Status string

const (
	// transient states
	QUEUED  Status = "queued"
	STARTED Status = "started"

	// end states
	FINISHED Status = "finished"
	FAILED   Status = "failed"
	STOPPED  Status = "stopped"
)

func IsFinalStatus(status Status) bool {
	switch status {
	case FINISHED, FAILED, STOPPED:
		return true
	default:
		return false
	}
}

func ToStatus(s string) Status {
	switch strings.ToLower(s) {
	case "queued":
		return QUEUED
	case "started":
		return STARTED
	case "finished":
		return FINISHED
	case "failed":
		return FAILED
	case "stopped":
		return STOPPED
	default:
		return ""
	}
}
