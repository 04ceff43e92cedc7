package structs

const (
	listTerminalDefault = 50
	listTerminalMax     = 1000
)

// ListEntry types.
const (
	EntryStaged = "staged"
	EntryJob    = "job"
)

// ListOptions controls merged staged+job listings.
type ListOptions struct {
	// MaxTerminal caps how many finished/failed/stopped jobs are returned.
	// Staged records and non-terminal jobs are always included.
	MaxTerminal int `json:"max_terminal,omitempty"`
}

func (o *ListOptions) Sanitize() {
	if o.MaxTerminal <= 0 {
		o.MaxTerminal = listTerminalDefault
	}
	if o.MaxTerminal > listTerminalMax {
		o.MaxTerminal = listTerminalMax
	}
}

// ListEntry is one row of a merged listing: a staged record or a job.
type ListEntry struct {
	Type   string     `json:"type"`
	Staged *StagedJob `json:"staged,omitempty"`
	Job    *Job       `json:"job,omitempty"`
}

// SortKey is the most-recent timestamp of the entry, used to order listings
// newest first (ended, else started, else enqueued, else staged).
func (e *ListEntry) SortKey() int64 {
	if e.Job != nil {
		if e.Job.EndedAt > 0 {
			return e.Job.EndedAt
		}
		if e.Job.StartedAt > 0 {
			return e.Job.StartedAt
		}
		return e.Job.EnqueuedAt
	}
	if e.Staged != nil {
		return e.Staged.StagedAt
	}
	return 0
}
