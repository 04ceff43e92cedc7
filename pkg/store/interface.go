package store

import (
	"context"
	"time"

	"github.com/seqward/stoker/pkg/structs"
)

// Store is the backing-store contract: field-addressable hashes for staged
// and job records, ordered sets for the status registries, append-only
// lists with expiry for log history and pub/sub channels for live fan-out.
type Store interface {
	// PutStaged writes a staged record and adds it to the staged index.
	PutStaged(ctx context.Context, s *structs.StagedJob) error

	// Staged returns the staged record with the given id, or ErrNotFound.
	Staged(ctx context.Context, id string) (*structs.StagedJob, error)

	// DeleteStaged removes a staged record, reporting whether it existed.
	DeleteStaged(ctx context.Context, id string) (bool, error)

	// ListStaged returns all staged records, newest first.
	ListStaged(ctx context.Context) ([]*structs.StagedJob, error)

	// PutJob writes a whole job record.
	PutJob(ctx context.Context, j *structs.Job) error

	// Job returns the job with the given id, or ErrNotFound.
	Job(ctx context.Context, id string) (*structs.Job, error)

	// Jobs returns the jobs for the given ids, skipping unknown ids.
	Jobs(ctx context.Context, ids []string) ([]*structs.Job, error)

	// HasJob reports whether a job record exists for the given id.
	HasJob(ctx context.Context, id string) (bool, error)

	// DeleteJob removes a job record. It fails with ErrJobLocked if the
	// deletion races a concurrent write to the same record.
	DeleteJob(ctx context.Context, id string) error

	// MarkJobStarted transitions the record's status fields to started.
	MarkJobStarted(ctx context.Context, id string, at int64) error

	// MarkJobEnded writes the record's terminal status, timestamp, result
	// and error fields.
	MarkJobEnded(ctx context.Context, id string, st structs.Status, at int64, result, errMsg string) error

	// SetJobMeta overwrites the job's meta map.
	SetJobMeta(ctx context.Context, id string, meta map[string]string) error

	// SetStopRequested flags the job so its worker stops at the next
	// checkpoint.
	SetStopRequested(ctx context.Context, id string) error

	// AddRegistry adds the id to the registry for st, scored by at.
	AddRegistry(ctx context.Context, st structs.Status, id string, at int64) error

	// RemoveRegistry drops the id from the registry for st.
	RemoveRegistry(ctx context.Context, st structs.Status, id string) error

	// RegistryIDs returns the registry's ids, newest first.
	RegistryIDs(ctx context.Context, st structs.Status) ([]string, error)

	// TrimRegistry evicts the oldest entries past max, returning the
	// evicted ids. A max <= 0 means unbounded.
	TrimRegistry(ctx context.Context, st structs.Status, max int64) ([]string, error)

	// AppendLog durably appends a record to the job's log history and
	// pushes it to the job's live channel as one logical operation.
	AppendLog(ctx context.Context, rec *structs.LogRecord) error

	// LogHistory returns all persisted records for a job in append order.
	LogHistory(ctx context.Context, jobID string) ([]*structs.LogRecord, error)

	// LogLen returns the number of persisted records for a job.
	LogLen(ctx context.Context, jobID string) (int64, error)

	// SubscribeLogs attaches to the job's live channel. The subscription
	// is established before SubscribeLogs returns. The returned closer
	// detaches; cancelling ctx detaches too.
	SubscribeLogs(ctx context.Context, jobID string) (<-chan *structs.LogRecord, func(), error)

	// SetLogRetention sets how long the job's log history is kept.
	// A ttl <= 0 deletes the history immediately.
	SetLogRetention(ctx context.Context, jobID string, ttl time.Duration) error

	// DeleteLogs removes the job's log history.
	DeleteLogs(ctx context.Context, jobID string) error

	// PublishEvent broadcasts a completion event. No history is kept.
	PublishEvent(ctx context.Context, ev *structs.Completion) error

	// SubscribeEvents attaches to the completion channel, live-only.
	SubscribeEvents(ctx context.Context) (<-chan *structs.Completion, func(), error)

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error

	Close() error
}
