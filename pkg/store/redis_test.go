package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ie "github.com/seqward/stoker/pkg/errors"
	"github.com/seqward/stoker/pkg/structs"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisWithClient(client), mr
}

func TestStagedCRUD(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	a := &structs.StagedJob{ID: "stg_a", Params: []byte(`{"path":"run.sh"}`), StagedAt: 100}
	b := &structs.StagedJob{ID: "stg_b", Params: []byte(`{"path":"other.sh"}`), StagedAt: 200}
	require.NoError(t, st.PutStaged(ctx, a))
	require.NoError(t, st.PutStaged(ctx, b))

	got, err := st.Staged(ctx, "stg_a")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	all, err := st.ListStaged(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "stg_b", all[0].ID) // newest first
	assert.Equal(t, "stg_a", all[1].ID)

	removed, err := st.DeleteStaged(ctx, "stg_a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = st.DeleteStaged(ctx, "stg_a")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = st.Staged(ctx, "stg_a")
	assert.ErrorIs(t, err, ie.ErrNotFound)
}

func TestJobCRUD(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	j := &structs.Job{
		SubmitSpec: structs.SubmitSpec{
			TimeoutSeconds:    3600,
			ResultTTLSeconds:  100,
			FailureTTLSeconds: 200,
			Meta:              map[string]string{"owner": "alex"},
		},
		ID:         "job_a",
		Status:     structs.QUEUED,
		Args:       []byte(`{"path":"run.sh"}`),
		EnqueuedAt: 100,
	}
	require.NoError(t, st.PutJob(ctx, j))

	got, err := st.Job(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, j, got)

	has, err := st.HasJob(ctx, "job_a")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = st.HasJob(ctx, "job_nope")
	require.NoError(t, err)
	assert.False(t, has)

	jobs, err := st.Jobs(ctx, []string{"job_a", "job_nope"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job_a", jobs[0].ID)

	require.NoError(t, st.DeleteJob(ctx, "job_a"))
	_, err = st.Job(ctx, "job_a")
	assert.ErrorIs(t, err, ie.ErrNotFound)
}

func TestJobTransitions(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	j := &structs.Job{ID: "job_a", Status: structs.QUEUED, EnqueuedAt: 100}
	require.NoError(t, st.PutJob(ctx, j))

	require.NoError(t, st.MarkJobStarted(ctx, "job_a", 150))
	got, err := st.Job(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, structs.STARTED, got.Status)
	assert.Equal(t, int64(150), got.StartedAt)

	require.NoError(t, st.MarkJobEnded(ctx, "job_a", structs.FAILED, 200, "", "boom"))
	got, err = st.Job(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, structs.FAILED, got.Status)
	assert.Equal(t, int64(200), got.EndedAt)
	assert.Equal(t, "boom", got.Error)

	require.NoError(t, st.SetStopRequested(ctx, "job_a"))
	got, err = st.Job(ctx, "job_a")
	require.NoError(t, err)
	assert.True(t, got.StopRequested)
}

func TestSetJobMeta(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.PutJob(ctx, &structs.Job{ID: "job_a", Status: structs.STARTED}))
	require.NoError(t, st.SetJobMeta(ctx, "job_a", map[string]string{"overall_progress": "45"}))

	got, err := st.Job(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"overall_progress": "45"}, got.Meta)
}

func TestRegistry(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AddRegistry(ctx, structs.FINISHED, "job_a", 100))
	require.NoError(t, st.AddRegistry(ctx, structs.FINISHED, "job_b", 200))
	require.NoError(t, st.AddRegistry(ctx, structs.FINISHED, "job_c", 300))

	ids, err := st.RegistryIDs(ctx, structs.FINISHED)
	require.NoError(t, err)
	assert.Equal(t, []string{"job_c", "job_b", "job_a"}, ids)

	require.NoError(t, st.RemoveRegistry(ctx, structs.FINISHED, "job_b"))
	ids, err = st.RegistryIDs(ctx, structs.FINISHED)
	require.NoError(t, err)
	assert.Equal(t, []string{"job_c", "job_a"}, ids)
}

func TestTrimRegistryEvictsOldest(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"job_a", "job_b", "job_c", "job_d", "job_e"} {
		require.NoError(t, st.AddRegistry(ctx, structs.FINISHED, id, int64(100+i)))
	}

	evicted, err := st.TrimRegistry(ctx, structs.FINISHED, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"job_a", "job_b", "job_c"}, evicted)

	ids, err := st.RegistryIDs(ctx, structs.FINISHED)
	require.NoError(t, err)
	assert.Equal(t, []string{"job_e", "job_d"}, ids)

	// under the cap: nothing to evict
	evicted, err = st.TrimRegistry(ctx, structs.FINISHED, 2)
	require.NoError(t, err)
	assert.Empty(t, evicted)

	// unbounded registries are never trimmed
	evicted, err = st.TrimRegistry(ctx, structs.FINISHED, 0)
	require.NoError(t, err)
	assert.Empty(t, evicted)
}

func TestAppendLogAndHistory(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	recs := []*structs.LogRecord{
		{JobID: "job_a", Seq: 0, Kind: structs.StreamStatus, Line: "started"},
		{JobID: "job_a", Seq: 1, Kind: structs.StreamStdout, Line: "hello"},
		{JobID: "job_a", Seq: 2, Kind: structs.StreamStderr, Line: "warn"},
	}
	for _, rec := range recs {
		require.NoError(t, st.AppendLog(ctx, rec))
	}

	n, err := st.LogLen(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	history, err := st.LogHistory(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, recs, history)
}

func TestSubscribeLogsLive(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	ch, closer, err := st.SubscribeLogs(ctx, "job_a")
	require.NoError(t, err)
	defer closer()

	rec := &structs.LogRecord{JobID: "job_a", Seq: 0, Kind: structs.StreamStdout, Line: "hi"}
	require.NoError(t, st.AppendLog(ctx, rec))

	select {
	case got := <-ch:
		assert.Equal(t, rec, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for live record")
	}
}

func TestSetLogRetention(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()

	rec := &structs.LogRecord{JobID: "job_a", Seq: 0, Kind: structs.StreamStdout, Line: "hi"}
	require.NoError(t, st.AppendLog(ctx, rec))

	require.NoError(t, st.SetLogRetention(ctx, "job_a", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(keyLogs+"job_a"))

	// non-positive retention deletes immediately
	require.NoError(t, st.SetLogRetention(ctx, "job_a", 0))
	assert.False(t, mr.Exists(keyLogs+"job_a"))
}

func TestPublishSubscribeEvents(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	ch, closer, err := st.SubscribeEvents(ctx)
	require.NoError(t, err)
	defer closer()

	ev := &structs.Completion{JobID: "job_a", Succeeded: true, Summary: "job_a finished", At: 100}
	require.NoError(t, st.PublishEvent(ctx, ev))

	select {
	case got := <-ch:
		assert.Equal(t, ev, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribeCloserDetaches(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	ch, closer, err := st.SubscribeLogs(ctx, "job_a")
	require.NoError(t, err)
	closer()

	_, open := <-ch
	assert.False(t, open)
}
