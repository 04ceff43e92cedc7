package api

import (
	"context"
	"encoding/json"

	"github.com/seqward/stoker/pkg/broadcast"
	"github.com/seqward/stoker/pkg/structs"
)

// API represents the functions stoker servers should expose.
type API interface {
	// Implemented in stoker/internal/core.Service

	Stage(ctx context.Context, params json.RawMessage) (*structs.StagedJob, error)
	Staged(ctx context.Context, id string) (*structs.StagedJob, error)
	RemoveStaged(ctx context.Context, id string) (bool, error)
	ListStaged(ctx context.Context) ([]*structs.StagedJob, error)

	Submit(ctx context.Context, stagedID string, spec *structs.SubmitSpec) (*structs.Job, error)
	Job(ctx context.Context, id string) (*structs.Job, error)
	List(ctx context.Context, opts *structs.ListOptions) ([]*structs.ListEntry, error)

	Stop(ctx context.Context, id string) (string, error)
	Remove(ctx context.Context, id string) error
	Rerun(ctx context.Context, id string) (*structs.StagedJob, error)

	Logs(ctx context.Context, id string) ([]*structs.LogRecord, *broadcast.Subscription, error)
	Health(ctx context.Context) error

	Close() error
}

type Server interface {
	ServeForever(api API) error
	Close() error
}
