package main

import (
	"os"
	"os/signal"

	"github.com/seqward/stoker/internal/utils"
	"github.com/seqward/stoker/pkg/api"
	"github.com/seqward/stoker/pkg/queue"
	"github.com/seqward/stoker/pkg/store"
)

type optsWorker struct {
	optsGeneral
	optsStore
	optsQueue

	Concurrency int `long:"concurrency" env:"CONCURRENCY" default:"1" description:"Jobs this worker runs at once"`

	KeepWork bool `long:"keep-work" env:"KEEP_WORK" description:"Keep temporary work directories after jobs end"`
}

func (c *optsWorker) Execute(args []string) error {
	// This runs a stoker worker: it pulls queued jobs, launches their
	// processes and feeds progress, resource usage and output back through
	// the store until something asks it to stop.
	//
	// It serves no network API; run `stoker api` for that.
	storeTLS, err := utils.TLSConfig(c.StoreTLSCaCert, c.StoreTLSCert, c.StoreTLSKey)
	if err != nil {
		return err
	}
	queueTLS, err := utils.TLSConfig(c.QueueTLSCaCert, c.QueueTLSCert, c.QueueTLSKey)
	if err != nil {
		return err
	}

	opts := api.OptionsServerDefault()
	opts.KeepWork = c.KeepWork

	svc, err := api.NewWorker(
		&store.Options{URL: c.StoreURL, TLSConfig: storeTLS},
		&queue.Options{URL: c.QueueURL, TLSConfig: queueTLS, Concurrency: c.Concurrency},
		opts,
	)
	if err != nil {
		return err
	}
	defer svc.Close()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt)
	<-exit

	return nil
}
