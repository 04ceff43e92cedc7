package main

import (
	"github.com/seqward/stoker/internal/utils"
	"github.com/seqward/stoker/pkg/api"
	"github.com/seqward/stoker/pkg/api/http/server"
	"github.com/seqward/stoker/pkg/queue"
	"github.com/seqward/stoker/pkg/store"
)

type optsAPI struct {
	optsGeneral
	optsStore
	optsQueue

	Addr string `long:"addr" env:"ADDR" description:"Address to bind to" default:"localhost:8100"`

	StaticDir string `long:"static-dir" env:"STATIC_DIR" default:"" description:"Serve static files from this directory"`
}

func (c *optsAPI) Execute(args []string) error {
	// This runs an API server (in this case, http) so that callers can stage,
	// submit, inspect and observe jobs over the network. Configured with
	// OptionsClientDefault it never executes jobs itself; run one or more
	// `stoker worker` processes for that.
	//
	// If you wish to interact with stoker by importing the pkg libraries you
	// don't need to run this.
	storeTLS, err := utils.TLSConfig(c.StoreTLSCaCert, c.StoreTLSCert, c.StoreTLSKey)
	if err != nil {
		return err
	}
	queueTLS, err := utils.TLSConfig(c.QueueTLSCaCert, c.QueueTLSCert, c.QueueTLSKey)
	if err != nil {
		return err
	}

	svc, err := api.New(
		&store.Options{URL: c.StoreURL, TLSConfig: storeTLS},
		&queue.Options{URL: c.QueueURL, TLSConfig: queueTLS},
		api.OptionsClientDefault(),
	)
	if err != nil {
		return err
	}
	defer svc.Close()

	s := server.NewServer(c.Addr, c.StaticDir, c.Debug)
	return s.ServeForever(svc)
}
