package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	ie "github.com/seqward/stoker/pkg/errors"
)

const (
	workQueue   = "stoker:pipelines"
	taskTypeRun = "pipeline:run"

	// slack past the job's own timeout so the runner can kill the process
	// tree and finalize before asynq gives up on the task
	timeoutSlack = 5 * time.Minute
)

// Asynq is a stoker queue implementation that uses asynq.
type Asynq struct {
	opts *Options
	conn asynq.RedisConnOpt

	// the asynq client & inspector
	ins *asynq.Inspector
	cli *asynq.Client

	// if Register is called we're intended to start a server
	lock sync.Mutex
	mux  *asynq.ServeMux
	srv  *asynq.Server
}

func NewAsynqQueue(opts *Options) (*Asynq, error) {
	opts.SetDefaults()
	conn, err := connOpt(opts)
	if err != nil {
		return nil, err
	}
	return &Asynq{
		opts: opts,
		conn: conn,
		ins:  asynq.NewInspector(conn),
		cli:  asynq.NewClient(conn),
	}, nil
}

func connOpt(opts *Options) (asynq.RedisConnOpt, error) {
	conn, err := asynq.ParseRedisURI(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ie.ErrInvalidArg, err)
	}
	if opts.TLSConfig != nil {
		if rc, ok := conn.(asynq.RedisClientOpt); ok {
			rc.TLSConfig = opts.TLSConfig
			conn = rc
		}
	}
	return conn, nil
}

func (a *Asynq) Close() error {
	if a.srv != nil {
		a.srv.Stop()
		a.srv.Shutdown()
	}
	return a.cli.Close()
}

func (a *Asynq) Enqueue(ctx context.Context, jobID string, timeout time.Duration) error {
	task := asynq.NewTask(taskTypeRun, []byte(jobID))
	_, err := a.cli.EnqueueContext(ctx, task,
		asynq.TaskID(jobID),
		asynq.Queue(workQueue),
		asynq.MaxRetry(0),
		asynq.Timeout(timeout+timeoutSlack),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("%w: queue task %s exists", ie.ErrInvalidState, jobID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ie.ErrStoreUnavailable, err)
	}
	return nil
}

func (a *Asynq) Register(handler Handler) error {
	if a.mux == nil {
		a.buildServer()
	}
	a.mux.HandleFunc(taskTypeRun, func(ctx context.Context, t *asynq.Task) error {
		jobID := string(t.Payload())
		if jobID == "" {
			return fmt.Errorf("%w: task without job id", ie.ErrInvalidArg)
		}
		return handler(ctx, jobID)
	})
	return nil
}

func (a *Asynq) Run() error {
	if a.srv == nil {
		return fmt.Errorf("%w: no handler registered", ie.ErrInvalidState)
	}
	return a.srv.Run(a.mux)
}

func (a *Asynq) Cancel(jobID string) error {
	// Best effort cancel; asynq can't guarantee the worker sees it promptly
	return a.ins.CancelProcessing(jobID)
}

func (a *Asynq) DeleteQueued(jobID string) error {
	err := a.ins.DeleteTask(workQueue, jobID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, asynq.ErrTaskNotFound), errors.Is(err, asynq.ErrQueueNotFound):
		return fmt.Errorf("%w: queue task %s", ie.ErrNotFound, jobID)
	default:
		// likely already picked up by a worker
		return fmt.Errorf("%w: %v", ie.ErrInvalidState, err)
	}
}

func (a *Asynq) buildServer() {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.mux != nil {
		// someone locked and set this first
		return
	}
	a.srv = asynq.NewServer(
		a.conn,
		asynq.Config{
			Concurrency: a.opts.Concurrency,
			Queues:      map[string]int{workQueue: 1},
		},
	)
	a.mux = asynq.NewServeMux()
}
