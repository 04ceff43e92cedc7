package notify

import (
	"context"
	"time"

	"github.com/seqward/stoker/pkg/store"
	"github.com/seqward/stoker/pkg/structs"
)

// Bus announces job completions to anyone who cares to listen. Events are
// fire-and-forget; a subscriber that attaches late simply misses earlier
// completions and should consult the job record instead.
type Bus struct {
	store store.Store
}

// NewBus returns a Bus publishing through the given store.
func NewBus(db store.Store) *Bus {
	return &Bus{store: db}
}

// PublishCompletion announces that a job reached an end state.
func (b *Bus) PublishCompletion(ctx context.Context, jobID string, succeeded bool, summary string) error {
	return b.store.PublishEvent(ctx, &structs.Completion{
		JobID:     jobID,
		Succeeded: succeeded,
		Summary:   summary,
		At:        time.Now().Unix(),
	})
}

// Subscribe yields completion events published while the subscription is
// active. The returned closer detaches the subscription; the channel also
// closes when ctx is done.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *structs.Completion, func(), error) {
	return b.store.SubscribeEvents(ctx)
}
