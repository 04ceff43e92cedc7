package store

import (
	"crypto/tls"
)

// Options are options for the store.
type Options struct {
	// URL encodes how we'll connect to the store (eg. redis://host:6379/0).
	URL string

	// TLSConfig needed to connect to the store (optional).
	TLSConfig *tls.Config
}

func (o *Options) SetDefaults() {
	if o.URL == "" {
		o.URL = "redis://localhost:6379/0"
	}
}
