package broadcast

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/seqward/stoker/pkg/store"
	"github.com/seqward/stoker/pkg/structs"
)

const (
	// defaultSubscriberBuffer is how many live records a slow observer can
	// fall behind before we start dropping the oldest buffered ones.
	defaultSubscriberBuffer = 256
)

// Options configures a Broadcaster.
type Options struct {
	// SubscriberBuffer is the per-subscriber live buffer size.
	SubscriberBuffer int
}

// SetDefaults fills in sensible values where none are given.
func (o *Options) SetDefaults() {
	if o.SubscriberBuffer <= 0 {
		o.SubscriberBuffer = defaultSubscriberBuffer
	}
}

// Broadcaster persists captured output lines in arrival order and fans them
// out to any number of live observers. A new observer always gets the full
// history first, then the live feed, with no gaps or duplicates in between.
//
// Sequence numbers are assigned here, not in the store: only the process
// executing a job publishes its lines, so a local counter per job is enough
// to keep the persisted order gapless.
type Broadcaster struct {
	opts  *Options
	store store.Store

	mu   sync.Mutex
	seqs map[string]*jobSeq
}

// jobSeq tracks the next sequence number for one job. Its own lock
// serialises publishes for that job without stalling other jobs.
type jobSeq struct {
	mu     sync.Mutex
	next   int64
	loaded bool
}

// Subscription is one observer's attachment to a job's live log feed.
type Subscription struct {
	out    chan *structs.LogRecord
	detach func()
}

// Records yields live records in order. The channel is closed after the
// end-of-stream record is delivered, or when the subscription is closed.
func (s *Subscription) Records() <-chan *structs.LogRecord {
	return s.out
}

// Close detaches the observer. Safe to call more than once, and safe to
// call after the feed has already ended.
func (s *Subscription) Close() {
	s.detach()
}

// NewBroadcaster returns a Broadcaster writing through the given store.
func NewBroadcaster(opts *Options, db store.Store) *Broadcaster {
	if opts == nil {
		opts = &Options{}
	}
	opts.SetDefaults()
	return &Broadcaster{
		opts:  opts,
		store: db,
		seqs:  map[string]*jobSeq{},
	}
}

// Publish appends one line to the job's durable history and forwards it to
// live observers. Records are sequenced in call order; a failed append does
// not consume a sequence number.
func (b *Broadcaster) Publish(ctx context.Context, jobID string, kind structs.StreamKind, line string) error {
	e := b.entry(jobID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		// First publish from this process; resume after whatever is
		// already persisted.
		n, err := b.store.LogLen(ctx, jobID)
		if err != nil {
			return err
		}
		e.next = n
		e.loaded = true
	}

	rec := &structs.LogRecord{
		JobID: jobID,
		Seq:   e.next,
		Kind:  kind,
		Line:  line,
	}
	if err := b.store.AppendLog(ctx, rec); err != nil {
		return err
	}
	e.next++
	return nil
}

// PublishEnd emits the end-of-stream record telling observers no further
// output will arrive for this job.
func (b *Broadcaster) PublishEnd(ctx context.Context, jobID string) error {
	if err := b.Publish(ctx, jobID, structs.StreamControl, structs.EndOfStream); err != nil {
		return err
	}
	b.forget(jobID)
	return nil
}

// Finalize applies the retention policy to a finished job's history.
// A ttl of zero or less removes the history immediately.
func (b *Broadcaster) Finalize(ctx context.Context, jobID string, ttl time.Duration) error {
	b.forget(jobID)
	return b.store.SetLogRetention(ctx, jobID, ttl)
}

// Subscribe attaches an observer to a job. It returns every record persisted
// so far, plus a subscription carrying all records published afterwards.
//
// The live feed is attached before the history snapshot is taken, and any
// record present in both is dropped from the feed, so the caller sees each
// sequence number exactly once regardless of how publishes interleave.
func (b *Broadcaster) Subscribe(ctx context.Context, jobID string) ([]*structs.LogRecord, *Subscription, error) {
	live, closer, err := b.store.SubscribeLogs(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}

	history, err := b.store.LogHistory(ctx, jobID)
	if err != nil {
		closer()
		return nil, nil, err
	}

	last := int64(-1)
	if len(history) > 0 {
		last = history[len(history)-1].Seq
	}

	sub := &Subscription{
		out:    make(chan *structs.LogRecord, b.opts.SubscriberBuffer),
		detach: closer,
	}
	go sub.pump(jobID, live, last)

	return history, sub, nil
}

// pump forwards live records to the observer, skipping anything already
// replayed from history and shedding the oldest buffered records if the
// observer cannot keep up.
func (s *Subscription) pump(jobID string, live <-chan *structs.LogRecord, last int64) {
	defer close(s.out)

	dropped := 0
	for rec := range live {
		if rec.Seq <= last {
			continue
		}
		last = rec.Seq

		select {
		case s.out <- rec:
		default:
			select {
			case <-s.out:
				dropped++
			default:
			}
			select {
			case s.out <- rec:
			default:
				dropped++
			}
		}

		if rec.IsEnd() {
			s.detach()
		}
	}
	if dropped > 0 {
		log.Println("[Broadcast]", "dropped", dropped, "record(s) for slow subscriber of job", jobID)
	}
}

// entry returns the seq counter for a job, creating it if needed.
func (b *Broadcaster) entry(jobID string) *jobSeq {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.seqs[jobID]
	if !ok {
		e = &jobSeq{}
		b.seqs[jobID] = e
	}
	return e
}

// forget drops the in-memory counter for a job that will not publish again.
func (b *Broadcaster) forget(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.seqs, jobID)
}
