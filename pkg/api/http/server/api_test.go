package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/seqward/stoker/internal/mocks/pkg/queue_mock"
	"github.com/seqward/stoker/pkg/api"
	"github.com/seqward/stoker/pkg/api/http/client"
	"github.com/seqward/stoker/pkg/api/http/common"
	"github.com/seqward/stoker/pkg/broadcast"
	"github.com/seqward/stoker/pkg/store"
	"github.com/seqward/stoker/pkg/structs"
)

var ctx = context.Background()

// testServer stands the whole stack up over miniredis: real service & store,
// mock queue, the real router on an httptest listener, the real client.
type testServer struct {
	cl   *client.Client
	qu   *queue_mock.MockQueue
	db   store.Store
	mr   *miniredis.Miniredis
	base string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	db := store.NewRedisWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { db.Close() })
	qu := queue_mock.NewMockQueue(gomock.NewController(t))

	svc, err := api.NewAPI(db, qu, nil)
	require.NoError(t, err)

	s := NewServer("localhost:0", "", false)
	s.svc = svc
	hs := httptest.NewServer(s.router())
	t.Cleanup(hs.Close)

	cl, err := client.New(hs.URL)
	require.NoError(t, err)

	return &testServer{cl: cl, qu: qu, db: db, mr: mr, base: hs.URL}
}

// submit stages params and promotes them; the caller EXPECTs the enqueue.
func (ts *testServer) submit(t *testing.T, params string) *structs.Job {
	t.Helper()

	staged, err := ts.cl.Stage(json.RawMessage(params))
	require.NoError(t, err)
	job, err := ts.cl.Submit(&common.SubmitRequest{StagedID: staged.ID})
	require.NoError(t, err)
	return job
}

func recv(t *testing.T, stream <-chan *structs.StreamMessage) *structs.StreamMessage {
	t.Helper()

	select {
	case msg := <-stream:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream message")
		return nil
	}
}

func TestStageSubmitFetchFlow(t *testing.T) {
	ts := newTestServer(t)

	staged, err := ts.cl.Stage(json.RawMessage(`{"path":"/bin/echo","args":["hi"]}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(staged.ID, "stg_"))

	ts.qu.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	job, err := ts.cl.Submit(&common.SubmitRequest{StagedID: staged.ID})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(job.ID, "job_"))
	assert.Equal(t, structs.QUEUED, job.Status)
	assert.Equal(t, int64(72*60*60), job.TimeoutSeconds)
	assert.Equal(t, json.RawMessage(`{"path":"/bin/echo","args":["hi"]}`), job.Args)

	got, err := ts.cl.Job(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	// promotion consumed the staged record
	_, err = ts.cl.Staged(staged.ID)
	assert.ErrorContains(t, err, "bad status code 404")
}

func TestSubmitRejectsUnknownFields(t *testing.T) {
	ts := newTestServer(t)

	body := strings.NewReader(`{"staged_id":"stg_x","bogus":1}`)
	resp, err := http.Post(ts.base+common.API_JOBS, "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStageRejectsBadParams(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.cl.Stage(json.RawMessage(`{"path":`))

	assert.ErrorContains(t, err, "bad status code 400")
}

func TestListMergesStagedAndJobs(t *testing.T) {
	ts := newTestServer(t)

	staged, err := ts.cl.Stage(json.RawMessage(`{"path":"/bin/date"}`))
	require.NoError(t, err)

	ts.qu.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	job := ts.submit(t, `{"path":"/bin/echo"}`)

	entries, err := ts.cl.List(&structs.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byType := map[string]string{}
	for _, e := range entries {
		switch e.Type {
		case structs.EntryStaged:
			byType[e.Type] = e.Staged.ID
		case structs.EntryJob:
			byType[e.Type] = e.Job.ID
		}
	}
	assert.Equal(t, staged.ID, byType[structs.EntryStaged])
	assert.Equal(t, job.ID, byType[structs.EntryJob])
}

func TestStopQueuedThenNoop(t *testing.T) {
	ts := newTestServer(t)

	ts.qu.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	job := ts.submit(t, `{"path":"/bin/sleep","args":["60"]}`)

	ts.qu.EXPECT().DeleteQueued(job.ID).Return(nil)

	msg, err := ts.cl.Stop(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "stopped before start", msg)

	got, err := ts.cl.Job(job.ID)
	require.NoError(t, err)
	assert.Equal(t, structs.STOPPED, got.Status)

	// stopping an ended job reports a no-op, it is not an error
	msg, err = ts.cl.Stop(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "job is already stopped", msg)
}

func TestRemoveJob(t *testing.T) {
	ts := newTestServer(t)

	ts.qu.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	job := ts.submit(t, `{"path":"/bin/true"}`)
	ts.qu.EXPECT().DeleteQueued(job.ID).Return(nil)
	_, err := ts.cl.Stop(job.ID)
	require.NoError(t, err)

	require.NoError(t, ts.cl.Remove(job.ID))

	_, err = ts.cl.Job(job.ID)
	assert.ErrorContains(t, err, "bad status code 404")
}

func TestRerunStagesEndedJobArgs(t *testing.T) {
	ts := newTestServer(t)

	params := `{"path":"/bin/echo","args":["again"]}`
	ts.qu.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	job := ts.submit(t, params)

	// a queued job can't be rerun
	_, err := ts.cl.Rerun(job.ID)
	assert.ErrorContains(t, err, "bad status code 400")

	ts.qu.EXPECT().DeleteQueued(job.ID).Return(nil)
	_, err = ts.cl.Stop(job.ID)
	require.NoError(t, err)

	staged, err := ts.cl.Rerun(job.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(staged.ID, "stg_"))
	assert.Equal(t, json.RawMessage(params), staged.Params)
}

func TestJobNotFound(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.cl.Job("job_nope")
	assert.ErrorContains(t, err, "bad status code 404")

	_, err = ts.cl.Stop("job_nope")
	assert.ErrorContains(t, err, "bad status code 404")

	err = ts.cl.Remove("job_nope")
	assert.ErrorContains(t, err, "bad status code 404")
}

func TestRemoveStagedReportsExistence(t *testing.T) {
	ts := newTestServer(t)

	staged, err := ts.cl.Stage(json.RawMessage(`{"path":"/bin/true"}`))
	require.NoError(t, err)

	removed, err := ts.cl.RemoveStaged(staged.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = ts.cl.RemoveStaged(staged.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStreamLogsReplayThenLive(t *testing.T) {
	ts := newTestServer(t)

	ts.qu.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	job := ts.submit(t, `{"path":"/bin/echo"}`)

	// history written before anyone subscribes
	bc := broadcast.NewBroadcaster(nil, ts.db)
	require.NoError(t, bc.Publish(ctx, job.ID, structs.StreamStatus, "started"))
	require.NoError(t, bc.Publish(ctx, job.ID, structs.StreamStdout, "line one"))

	stream, err := ts.cl.StreamLogs(ctx, job.ID)
	require.NoError(t, err)

	assert.Equal(t, &structs.StreamMessage{Type: structs.StreamStatus, Line: "started"}, recv(t, stream))
	assert.Equal(t, &structs.StreamMessage{Type: structs.StreamStdout, Line: "line one"}, recv(t, stream))

	// live records follow the replay on the same stream
	require.NoError(t, bc.Publish(ctx, job.ID, structs.StreamStdout, "line two"))
	require.NoError(t, bc.PublishEnd(ctx, job.ID))

	assert.Equal(t, &structs.StreamMessage{Type: structs.StreamStdout, Line: "line two"}, recv(t, stream))
	end := recv(t, stream)
	assert.True(t, end.IsEnd())

	select {
	case msg, open := <-stream:
		assert.False(t, open, "unexpected trailing message %v", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after end-of-stream")
	}
}

func TestStreamLogsEndedJob(t *testing.T) {
	ts := newTestServer(t)

	ts.qu.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	job := ts.submit(t, `{"path":"/bin/echo"}`)

	bc := broadcast.NewBroadcaster(nil, ts.db)
	require.NoError(t, bc.Publish(ctx, job.ID, structs.StreamStdout, "all done"))
	require.NoError(t, bc.PublishEnd(ctx, job.ID))

	stream, err := ts.cl.StreamLogs(ctx, job.ID)
	require.NoError(t, err)

	assert.Equal(t, &structs.StreamMessage{Type: structs.StreamStdout, Line: "all done"}, recv(t, stream))
	assert.True(t, recv(t, stream).IsEnd())

	select {
	case msg, open := <-stream:
		assert.False(t, open, "unexpected trailing message %v", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after end-of-stream")
	}
}

func TestStreamLogsUnknownJob(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.cl.StreamLogs(ctx, "job_nope")

	assert.ErrorContains(t, err, "404")
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	assert.Nil(t, ts.cl.Health())

	// with the store gone health reports service unavailable
	ts.mr.Close()
	assert.ErrorContains(t, ts.cl.Health(), "bad status code 503")
}
