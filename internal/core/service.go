package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/seqward/stoker/internal/runner"
	"github.com/seqward/stoker/internal/utils"
	"github.com/seqward/stoker/pkg/broadcast"
	ie "github.com/seqward/stoker/pkg/errors"
	"github.com/seqward/stoker/pkg/notify"
	"github.com/seqward/stoker/pkg/queue"
	"github.com/seqward/stoker/pkg/store"
	"github.com/seqward/stoker/pkg/structs"
)

const (
	// max values
	maxParamsBytes = 256 * 1024

	// how many fresh ids we try when a proposed job id collides
	maxSubmitAttempts = 3
)

var (
	// every registry a job id can appear in. Stopped jobs are indexed in
	// the failed registry; the record's status field stays authoritative.
	registryStatuses = []structs.Status{
		structs.QUEUED,
		structs.STARTED,
		structs.FINISHED,
		structs.FAILED,
	}
)

// Service carries out staging, promotion and lifecycle operations on jobs.
// It owns the submission side; the Worker owns execution.
type Service struct {
	db   store.Store
	qu   queue.Queue
	bc   *broadcast.Broadcaster
	bus  *notify.Bus
	opts *Options
}

// NewService returns a Service over the given store & queue.
func NewService(db store.Store, qu queue.Queue, opts *Options) *Service {
	if opts == nil {
		opts = &Options{}
	}
	opts.SetDefaults()
	return &Service{
		db:   db,
		qu:   qu,
		bc:   broadcast.NewBroadcaster(nil, db),
		bus:  notify.NewBus(db),
		opts: opts,
	}
}

func (c *Service) Close() error {
	c.qu.Close()
	c.db.Close()
	return nil
}

// Stage holds on to a parameter bundle for later promotion into a job.
func (c *Service) Stage(ctx context.Context, params json.RawMessage) (*structs.StagedJob, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	s := &structs.StagedJob{
		ID:       utils.NewStagedID(),
		Params:   params,
		StagedAt: time.Now().Unix(),
	}
	if err := c.db.PutStaged(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Staged returns a staged record by id.
func (c *Service) Staged(ctx context.Context, id string) (*structs.StagedJob, error) {
	if !utils.IsStagedID(id) {
		return nil, fmt.Errorf("%w %s is not a staged id", ie.ErrNotFound, id)
	}
	return c.db.Staged(ctx, id)
}

// RemoveStaged deletes a staged record, reporting whether it existed.
func (c *Service) RemoveStaged(ctx context.Context, id string) (bool, error) {
	if !utils.IsStagedID(id) {
		return false, nil
	}
	return c.db.DeleteStaged(ctx, id)
}

// ListStaged returns all staged records, newest first.
func (c *Service) ListStaged(ctx context.Context) ([]*structs.StagedJob, error) {
	return c.db.ListStaged(ctx)
}

// Submit promotes a staged record into a queued job. The staged record is
// consumed; the job is a new entity with its own id.
func (c *Service) Submit(ctx context.Context, stagedID string, spec *structs.SubmitSpec) (*structs.Job, error) {
	staged, err := c.Staged(ctx, stagedID)
	if err != nil {
		return nil, err
	}

	if spec == nil {
		spec = &structs.SubmitSpec{}
	}
	spec.Sanitize()

	var job *structs.Job
	for attempt := 0; ; attempt++ {
		id := utils.NewJobID()

		has, err := c.db.HasJob(ctx, id)
		if err != nil {
			return nil, err
		}
		if has {
			if attempt+1 < maxSubmitAttempts {
				continue
			}
			return nil, fmt.Errorf("%w could not allocate an unused job id", ie.ErrInvalidState)
		}

		job = &structs.Job{
			SubmitSpec: *spec,
			ID:         id,
			Status:     structs.QUEUED,
			Args:       staged.Params,
			EnqueuedAt: time.Now().Unix(),
		}

		// the record must be readable before a worker can pick the job up
		if err = c.db.PutJob(ctx, job); err != nil {
			return nil, err
		}
		if err = c.db.AddRegistry(ctx, structs.QUEUED, job.ID, job.EnqueuedAt); err != nil {
			return nil, err
		}

		err = c.qu.Enqueue(ctx, job.ID, job.Timeout())
		if err == nil {
			break
		}

		// roll this attempt back before giving up or rerolling the id
		if rerr := c.db.RemoveRegistry(ctx, structs.QUEUED, job.ID); rerr != nil {
			log.Println("[Service]", "rollback registry entry for", job.ID, ":", rerr)
		}
		if derr := c.db.DeleteJob(ctx, job.ID); derr != nil {
			log.Println("[Service]", "rollback job record", job.ID, ":", derr)
		}
		if errors.Is(err, ie.ErrInvalidState) && attempt+1 < maxSubmitAttempts {
			continue // id taken in the queue; try a fresh one
		}
		return nil, err
	}

	if _, err := c.db.DeleteStaged(ctx, stagedID); err != nil {
		// the job is queued either way; a leftover staged record is the
		// lesser evil
		log.Println("[Service]", "staged record", stagedID, "not removed after submit:", err)
	}
	return job, nil
}

// Job returns a job record by id.
func (c *Service) Job(ctx context.Context, id string) (*structs.Job, error) {
	if !utils.IsJobID(id) {
		return nil, fmt.Errorf("%w %s is not a job id", ie.ErrNotFound, id)
	}
	return c.db.Job(ctx, id)
}

// List merges staged records and jobs from every registry, most recent
// first. Ended jobs are capped per opts; everything else is always included.
func (c *Service) List(ctx context.Context, opts *structs.ListOptions) ([]*structs.ListEntry, error) {
	if opts == nil {
		opts = &structs.ListOptions{}
	}
	opts.Sanitize()

	entries := []*structs.ListEntry{}

	staged, err := c.db.ListStaged(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range staged {
		entries = append(entries, &structs.ListEntry{Type: structs.EntryStaged, Staged: s})
	}

	// a job mid-transition can momentarily sit in two registries
	seen := map[string]bool{}
	for _, st := range registryStatuses {
		ids, err := c.db.RegistryIDs(ctx, st)
		if err != nil {
			return nil, err
		}
		jobs, err := c.db.Jobs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			if seen[j.ID] {
				continue
			}
			seen[j.ID] = true
			entries = append(entries, &structs.ListEntry{Type: structs.EntryJob, Job: j})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortKey() > entries[j].SortKey()
	})

	capped := make([]*structs.ListEntry, 0, len(entries))
	terminal := 0
	for _, e := range entries {
		if e.Job != nil && structs.IsFinalStatus(e.Job.Status) {
			if terminal >= opts.MaxTerminal {
				continue
			}
			terminal++
		}
		capped = append(capped, e)
	}
	return capped, nil
}

// Stop halts a job. Ended jobs are a no-op; queued jobs are pulled off the
// queue and finalized here; started jobs are signalled and stop at the
// worker's next checkpoint.
func (c *Service) Stop(ctx context.Context, id string) (string, error) {
	job, err := c.Job(ctx, id)
	if err != nil {
		return "", err
	}

	if structs.IsFinalStatus(job.Status) {
		return fmt.Sprintf("job is already %s", job.Status), nil
	}

	if job.Status == structs.QUEUED {
		err = c.qu.DeleteQueued(id)
		if err == nil {
			c.finalize(ctx, job, &runner.Result{Status: structs.STOPPED}, nil)
			return "stopped before start", nil
		}
		if !errors.Is(err, ie.ErrNotFound) && !errors.Is(err, ie.ErrInvalidState) {
			return "", err
		}
		// a worker beat us to it; signal it below instead
	}

	if err := c.db.SetStopRequested(ctx, id); err != nil {
		return "", err
	}
	if err := c.qu.Cancel(id); err != nil {
		log.Println("[Service]", "cancel signal for", id, ":", err)
		return "", err
	}
	return "stop requested", nil
}

// Remove deletes a job and everything recorded about it, stopping it first
// if it hasn't ended. Racing an in-flight worker write fails with
// ErrJobLocked; the caller can retry once the job has settled.
func (c *Service) Remove(ctx context.Context, id string) error {
	job, err := c.Job(ctx, id)
	if err != nil {
		return err
	}

	if !structs.IsFinalStatus(job.Status) {
		if _, err = c.Stop(ctx, id); err != nil {
			return err
		}
	}

	for _, st := range registryStatuses {
		if err = c.db.RemoveRegistry(ctx, st, id); err != nil {
			return err
		}
	}
	if err = c.db.DeleteJob(ctx, id); err != nil {
		return err
	}
	return c.db.DeleteLogs(ctx, id)
}

// Rerun stages a new record from an ended job's stored args. The old job is
// untouched.
func (c *Service) Rerun(ctx context.Context, id string) (*structs.StagedJob, error) {
	job, err := c.Job(ctx, id)
	if err != nil {
		return nil, err
	}
	if !structs.IsFinalStatus(job.Status) {
		return nil, fmt.Errorf("%w job %s is %s; only ended jobs can be rerun", ie.ErrInvalidState, id, job.Status)
	}
	return c.Stage(ctx, job.Args)
}

// Logs returns everything a job has output so far plus a live subscription
// for whatever follows. Works on running and ended jobs alike; an ended
// job's history closes with the end-of-stream record.
func (c *Service) Logs(ctx context.Context, id string) ([]*structs.LogRecord, *broadcast.Subscription, error) {
	if !utils.IsJobID(id) {
		return nil, nil, fmt.Errorf("%w %s is not a job id", ie.ErrNotFound, id)
	}
	has, err := c.db.HasJob(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !has {
		return nil, nil, fmt.Errorf("%w job %s", ie.ErrNotFound, id)
	}
	return c.bc.Subscribe(ctx, id)
}

// Health reports whether the backing store is reachable.
func (c *Service) Health(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// finalize is the guaranteed end-of-job bookkeeping: terminal record fields,
// registry move & trim, final meta flush, stream end marker, log retention
// and the completion event. Every step is best effort; a failed step is
// logged and the rest still run.
func (c *Service) finalize(ctx context.Context, job *structs.Job, res *runner.Result, meta *runner.MetaBuffer) {
	now := time.Now().Unix()

	errMsg := ""
	if res.Err != nil {
		errMsg = res.Err.Error()
	}
	result := ""
	if res.Status == structs.FINISHED {
		result = res.ResultsDir
	}

	exists, err := c.db.HasJob(ctx, job.ID)
	if err != nil {
		log.Println("[Service]", "checking job", job.ID, "before finalize:", err)
		exists = true
	}
	if exists {
		if meta != nil {
			if err := meta.Flush(true); err != nil {
				log.Println("[Service]", "final meta flush for", job.ID, ":", err)
			}
		}
		if err := c.db.MarkJobEnded(ctx, job.ID, res.Status, now, result, errMsg); err != nil {
			log.Println("[Service]", "marking job", job.ID, "ended:", err)
		}
		for _, st := range []structs.Status{structs.QUEUED, structs.STARTED} {
			if err := c.db.RemoveRegistry(ctx, st, job.ID); err != nil {
				log.Println("[Service]", "removing", job.ID, "from", st, "registry:", err)
			}
		}

		reg := structs.FINISHED
		if res.Status != structs.FINISHED {
			reg = structs.FAILED
		}
		if err := c.db.AddRegistry(ctx, reg, job.ID, now); err != nil {
			log.Println("[Service]", "adding", job.ID, "to", reg, "registry:", err)
		}
		evicted, err := c.db.TrimRegistry(ctx, reg, c.opts.RegistryCap)
		if err != nil {
			log.Println("[Service]", "trimming", reg, "registry:", err)
		}
		for _, old := range evicted {
			if err := c.db.DeleteJob(ctx, old); err != nil {
				log.Println("[Service]", "deleting evicted job", old, ":", err)
			}
			if err := c.db.DeleteLogs(ctx, old); err != nil {
				log.Println("[Service]", "deleting evicted job logs", old, ":", err)
			}
		}
	}

	// tell observers how it ended, then close the stream for good
	if err := c.bc.Publish(ctx, job.ID, structs.StreamStatus, string(res.Status)); err != nil {
		log.Println("[Service]", "publishing final status for", job.ID, ":", err)
	}
	if errMsg != "" {
		if err := c.bc.Publish(ctx, job.ID, structs.StreamError, errMsg); err != nil {
			log.Println("[Service]", "publishing error record for", job.ID, ":", err)
		}
	}
	if err := c.bc.PublishEnd(ctx, job.ID); err != nil {
		log.Println("[Service]", "publishing end marker for", job.ID, ":", err)
	}

	ttl := job.FailureTTL()
	summary := fmt.Sprintf("job %s %s", job.ID, res.Status)
	if res.Status == structs.FINISHED {
		ttl = job.ResultTTL()
		if res.ResultsDir != "" {
			summary = fmt.Sprintf("job %s finished, results at %s", job.ID, res.ResultsDir)
		}
	} else if errMsg != "" {
		summary = fmt.Sprintf("job %s %s: %s", job.ID, res.Status, errMsg)
	}
	if err := c.bc.Finalize(ctx, job.ID, ttl); err != nil {
		log.Println("[Service]", "applying log retention for", job.ID, ":", err)
	}
	if err := c.bus.PublishCompletion(ctx, job.ID, res.Status == structs.FINISHED, summary); err != nil {
		log.Println("[Service]", "publishing completion for", job.ID, ":", err)
	}
}

func validateParams(params json.RawMessage) error {
	if len(params) == 0 {
		return fmt.Errorf("%w params are required", ie.ErrInvalidArg)
	}
	if len(params) > maxParamsBytes {
		return fmt.Errorf("%w params over %d bytes", ie.ErrMaxExceeded, maxParamsBytes)
	}
	if !json.Valid(params) {
		return fmt.Errorf("%w params must be valid json", ie.ErrInvalidArg)
	}
	return nil
}
