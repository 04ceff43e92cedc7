package api

import (
	"time"
)

const (
	defRegistryCap       = 200
	defMetaFlushInterval = 2 * time.Second
	defSampleInterval    = 5 * time.Second
	defTracePoll         = 5 * time.Second
	defTermGrace         = 10 * time.Second
)

// Options passed to the stoker API on creation
type Options struct {
	// RegistryCap bounds how many ended jobs the finished & failed
	// registries each keep. Jobs evicted past the cap are deleted
	// outright, logs and all.
	RegistryCap int64

	// MetaFlushInterval is how often a running job's buffered metadata
	// updates (progress, resource usage etc) are pushed to the store.
	MetaFlushInterval time.Duration

	// KeepWork stops workers from removing the temporary work directories
	// made for jobs that don't name one. Handy when debugging a pipeline.
	KeepWork bool

	// SampleInterval is how often a running process tree has its resource
	// usage sampled.
	SampleInterval time.Duration

	// TracePoll is how often a job's trace file is checked for new
	// progress entries.
	TracePoll time.Duration

	// TermGrace is how long a stopping process is given after SIGTERM
	// before it is killed outright.
	TermGrace time.Duration
}

// OptionsClientDefault runs a stoker service that executes no jobs itself.
// This is intended either for;
// - clients who want to stage, submit & observe jobs from their own code
// - servers that serve the API over the network without doing the work
func OptionsClientDefault() *Options {
	return &Options{
		RegistryCap:       defRegistryCap,
		MetaFlushInterval: defMetaFlushInterval,
	}
}

// OptionsServerDefault runs a stoker service for processes that execute
// jobs; the execution tunables matter only to these.
func OptionsServerDefault() *Options {
	return &Options{
		RegistryCap:       defRegistryCap,
		MetaFlushInterval: defMetaFlushInterval,
		SampleInterval:    defSampleInterval,
		TracePoll:         defTracePoll,
		TermGrace:         defTermGrace,
	}
}
