package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/seqward/stoker/internal/utils"
	"github.com/seqward/stoker/pkg/notify"
	"github.com/seqward/stoker/pkg/store"
)

type optsWatch struct {
	optsGeneral
	optsStore
}

func (c *optsWatch) Execute(args []string) error {
	// This tails the completion channel, printing one line per job that
	// reaches an end state. Events are live-only; completions from before
	// this process attached are not replayed.
	storeTLS, err := utils.TLSConfig(c.StoreTLSCaCert, c.StoreTLSCert, c.StoreTLSKey)
	if err != nil {
		return err
	}

	db, err := store.NewRedis(&store.Options{URL: c.StoreURL, TLSConfig: storeTLS})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, closer, err := notify.NewBus(db).Subscribe(ctx)
	if err != nil {
		return err
	}
	defer closer()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			outcome := "failed"
			if ev.Succeeded {
				outcome = "ok"
			}
			log.Println(outcome, ev.JobID, ev.Summary)
		case <-exit:
			return nil
		}
	}
}
