package queue

import (
	"crypto/tls"
)

const defaultConcurrency = 1

// Options are options for the queue.
type Options struct {
	// URL encodes how we'll connect to the queue (eg. redis://host:6379/0).
	URL string

	// TLSConfig needed to connect to the queue (optional).
	TLSConfig *tls.Config

	// Concurrency is how many jobs one worker process runs at a time.
	// A job occupies its worker slot for the full run (minutes to hours).
	Concurrency int
}

func (o *Options) SetDefaults() {
	if o.URL == "" {
		o.URL = "redis://localhost:6379/0"
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
}
