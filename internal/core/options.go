package core

import (
	"time"

	"github.com/seqward/stoker/internal/runner"
)

const (
	// defaults
	defRegistryCap  = 200
	defMetaInterval = 2 * time.Second
)

// Options tune the orchestration service and its workers.
type Options struct {
	// RegistryCap bounds the finished / failed registries; the oldest
	// entries past it are evicted along with their records and logs.
	RegistryCap int64

	// MetaFlushInterval throttles how often a running job's buffered meta
	// is pushed to the store.
	MetaFlushInterval time.Duration

	// KeepWork stops the worker from removing the temporary working
	// directories it creates for jobs that don't name one.
	KeepWork bool

	// Runner tunes the process supervisor.
	Runner *runner.Options
}

// SetDefaults fills in sensible values where none are given.
func (o *Options) SetDefaults() {
	if o.RegistryCap <= 0 {
		o.RegistryCap = defRegistryCap
	}
	if o.MetaFlushInterval <= 0 {
		o.MetaFlushInterval = defMetaInterval
	}
	if o.Runner == nil {
		o.Runner = &runner.Options{}
	}
	o.Runner.SetDefaults()
}
