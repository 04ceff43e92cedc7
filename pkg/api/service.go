package api

import (
	"log"

	"github.com/seqward/stoker/internal/core"
	"github.com/seqward/stoker/internal/runner"
	"github.com/seqward/stoker/pkg/queue"
	"github.com/seqward/stoker/pkg/store"
)

// New builds a store & queue from the given options and serves the API over
// them. The returned service executes nothing itself; see NewWorker for that.
func New(dbOpts *store.Options, quOpts *queue.Options, opts *Options) (API, error) {
	db, err := store.NewRedis(dbOpts)
	if err != nil {
		return nil, err
	}
	qu, err := queue.NewAsynqQueue(quOpts)
	if err != nil {
		return nil, err
	}
	return NewAPI(db, qu, opts)
}

// NewAPI serves the API over an already connected store & queue.
func NewAPI(db store.Store, qu queue.Queue, opts *Options) (API, error) {
	if opts == nil {
		opts = OptionsClientDefault()
	}
	return core.NewService(db, qu, opts.toCore()), nil
}

// NewWorker builds a store & queue from the given options and starts pulling
// queued jobs off the queue to run. Jobs are processed until Close is called.
func NewWorker(dbOpts *store.Options, quOpts *queue.Options, opts *Options) (API, error) {
	db, err := store.NewRedis(dbOpts)
	if err != nil {
		return nil, err
	}
	qu, err := queue.NewAsynqQueue(quOpts)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = OptionsServerDefault()
	}

	svc := core.NewService(db, qu, opts.toCore())
	if err := qu.Register(core.NewWorker(svc).Handle); err != nil {
		svc.Close()
		return nil, err
	}
	go func() {
		if err := qu.Run(); err != nil {
			log.Println("[API]", "queue worker stopped:", err)
		}
	}()
	return svc, nil
}

func (o *Options) toCore() *core.Options {
	return &core.Options{
		RegistryCap:       o.RegistryCap,
		MetaFlushInterval: o.MetaFlushInterval,
		KeepWork:          o.KeepWork,
		Runner: &runner.Options{
			SampleInterval: o.SampleInterval,
			TracePoll:      o.TracePoll,
			TermGrace:      o.TermGrace,
		},
	}
}
