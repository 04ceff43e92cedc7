package structs

import (
	"encoding/json"
)

// StagedJob is a parameter bundle accepted but not yet submitted for
// execution. Promotion consumes the staged record and creates a distinct
// Job entity; the staged record itself never transitions.
type StagedJob struct {
	// ID is a unique identifier for this staged record
	ID string `json:"id"`

	// Params is the opaque serialized parameter bundle
	Params json.RawMessage `json:"params"`

	// StagedAt is the time this record was created unix time in seconds
	StagedAt int64 `json:"staged_at"`
}
