package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	ie "github.com/seqward/stoker/pkg/errors"
	"github.com/seqward/stoker/pkg/structs"
)

// Key layout. Staged and job records are hashes keyed by id, registries are
// sorted sets scored by timestamp, log history is a list per job, live
// fan-out is a channel per job and completions share one fixed channel.
const (
	keyStagedIndex = "stoker:staged"
	keyStagedHash  = "stoker:staged:"
	keyJob         = "stoker:job:"
	keyRegistry    = "stoker:registry:"
	keyLogs        = "stoker:logs:"
	keyLive        = "stoker:live:"
	keyEvents      = "stoker:events"

	subBuffer = 64
)

const (
	fieldID         = "id"
	fieldStatus     = "status"
	fieldArgs       = "args"
	fieldMeta       = "meta"
	fieldParams     = "params"
	fieldEnqueued   = "enqueued_at"
	fieldStarted    = "started_at"
	fieldEnded      = "ended_at"
	fieldStaged     = "staged_at"
	fieldResult     = "result"
	fieldError      = "error"
	fieldTimeout    = "timeout_seconds"
	fieldResultTTL  = "result_ttl_seconds"
	fieldFailureTTL = "failure_ttl_seconds"
	fieldStopReq    = "stop_requested"
)

// Redis is a stoker store implementation that uses redis.
type Redis struct {
	opts   *Options
	client *redis.Client
}

// NewRedis returns a new Redis store connection.
func NewRedis(opts *Options) (*Redis, error) {
	opts.SetDefaults()
	ropts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ie.ErrInvalidArg, err)
	}
	if opts.TLSConfig != nil {
		ropts.TLSConfig = opts.TLSConfig
	}
	return &Redis{opts: opts, client: redis.NewClient(ropts)}, nil
}

// NewRedisWithClient wraps an existing client, used in tests.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{opts: &Options{}, client: client}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Ping(ctx context.Context) error {
	return storeErr(r.client.Ping(ctx).Err())
}

// storeErr folds connection / command failures into ErrStoreUnavailable so
// callers can surface them uniformly.
func storeErr(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	if errors.Is(err, redis.TxFailedErr) {
		return ie.ErrJobLocked
	}
	return fmt.Errorf("%w: %v", ie.ErrStoreUnavailable, err)
}

func (r *Redis) PutStaged(ctx context.Context, s *structs.StagedJob) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, keyStagedHash+s.ID, map[string]interface{}{
			fieldID:     s.ID,
			fieldParams: string(s.Params),
			fieldStaged: s.StagedAt,
		})
		pipe.ZAdd(ctx, keyStagedIndex, redis.Z{Score: float64(s.StagedAt), Member: s.ID})
		return nil
	})
	return storeErr(err)
}

func (r *Redis) Staged(ctx context.Context, id string) (*structs.StagedJob, error) {
	fields, err := r.client.HGetAll(ctx, keyStagedHash+id).Result()
	if err != nil {
		return nil, storeErr(err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: staged record %s", ie.ErrNotFound, id)
	}
	return stagedFromFields(fields), nil
}

func (r *Redis) DeleteStaged(ctx context.Context, id string) (bool, error) {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, keyStagedHash+id)
		pipe.ZRem(ctx, keyStagedIndex, id)
		return nil
	})
	if err != nil {
		return false, storeErr(err)
	}
	return del.Val() > 0, nil
}

func (r *Redis) ListStaged(ctx context.Context) ([]*structs.StagedJob, error) {
	ids, err := r.client.ZRevRange(ctx, keyStagedIndex, 0, -1).Result()
	if err != nil {
		return nil, storeErr(err)
	}

	out := make([]*structs.StagedJob, 0, len(ids))
	for _, id := range ids {
		s, err := r.Staged(ctx, id)
		if errors.Is(err, ie.ErrNotFound) {
			continue // index can briefly outlive the record
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *Redis) PutJob(ctx context.Context, j *structs.Job) error {
	meta, err := json.Marshal(j.Meta)
	if err != nil {
		return fmt.Errorf("%w: %v", ie.ErrInvalidArg, err)
	}
	stop := "0"
	if j.StopRequested {
		stop = "1"
	}
	err = r.client.HSet(ctx, keyJob+j.ID, map[string]interface{}{
		fieldID:         j.ID,
		fieldStatus:     string(j.Status),
		fieldArgs:       string(j.Args),
		fieldMeta:       string(meta),
		fieldEnqueued:   j.EnqueuedAt,
		fieldStarted:    j.StartedAt,
		fieldEnded:      j.EndedAt,
		fieldResult:     j.Result,
		fieldError:      j.Error,
		fieldTimeout:    j.TimeoutSeconds,
		fieldResultTTL:  j.ResultTTLSeconds,
		fieldFailureTTL: j.FailureTTLSeconds,
		fieldStopReq:    stop,
	}).Err()
	return storeErr(err)
}

func (r *Redis) Job(ctx context.Context, id string) (*structs.Job, error) {
	fields, err := r.client.HGetAll(ctx, keyJob+id).Result()
	if err != nil {
		return nil, storeErr(err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: job %s", ie.ErrNotFound, id)
	}
	return jobFromFields(fields), nil
}

func (r *Redis) Jobs(ctx context.Context, ids []string) ([]*structs.Job, error) {
	out := make([]*structs.Job, 0, len(ids))
	for _, id := range ids {
		j, err := r.Job(ctx, id)
		if errors.Is(err, ie.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *Redis) HasJob(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, keyJob+id).Result()
	if err != nil {
		return false, storeErr(err)
	}
	return n > 0, nil
}

// DeleteJob removes the record inside a WATCH transaction: a concurrent
// write to the record between watch and exec aborts the delete.
func (r *Redis) DeleteJob(ctx context.Context, id string) error {
	key := keyJob + id
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		if err := tx.HGet(ctx, key, fieldStatus).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	return storeErr(err)
}

func (r *Redis) MarkJobStarted(ctx context.Context, id string, at int64) error {
	err := r.client.HSet(ctx, keyJob+id,
		fieldStatus, string(structs.STARTED),
		fieldStarted, at,
	).Err()
	return storeErr(err)
}

func (r *Redis) MarkJobEnded(ctx context.Context, id string, st structs.Status, at int64, result, errMsg string) error {
	err := r.client.HSet(ctx, keyJob+id,
		fieldStatus, string(st),
		fieldEnded, at,
		fieldResult, result,
		fieldError, errMsg,
	).Err()
	return storeErr(err)
}

func (r *Redis) SetJobMeta(ctx context.Context, id string, meta map[string]string) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("%w: %v", ie.ErrInvalidArg, err)
	}
	return storeErr(r.client.HSet(ctx, keyJob+id, fieldMeta, string(data)).Err())
}

func (r *Redis) SetStopRequested(ctx context.Context, id string) error {
	return storeErr(r.client.HSet(ctx, keyJob+id, fieldStopReq, "1").Err())
}

func registryKey(st structs.Status) string {
	return keyRegistry + string(st)
}

func (r *Redis) AddRegistry(ctx context.Context, st structs.Status, id string, at int64) error {
	err := r.client.ZAdd(ctx, registryKey(st), redis.Z{Score: float64(at), Member: id}).Err()
	return storeErr(err)
}

func (r *Redis) RemoveRegistry(ctx context.Context, st structs.Status, id string) error {
	return storeErr(r.client.ZRem(ctx, registryKey(st), id).Err())
}

func (r *Redis) RegistryIDs(ctx context.Context, st structs.Status) ([]string, error) {
	ids, err := r.client.ZRevRange(ctx, registryKey(st), 0, -1).Result()
	return ids, storeErr(err)
}

func (r *Redis) TrimRegistry(ctx context.Context, st structs.Status, max int64) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}
	key := registryKey(st)
	evicted, err := r.client.ZRange(ctx, key, 0, -max-1).Result()
	if err != nil {
		return nil, storeErr(err)
	}
	if len(evicted) == 0 {
		return nil, nil
	}
	if err := r.client.ZRemRangeByRank(ctx, key, 0, -max-1).Err(); err != nil {
		return nil, storeErr(err)
	}
	return evicted, nil
}

// AppendLog appends the record to the job's history list and publishes it
// to the job's live channel in one MULTI/EXEC: a record is never visible
// live without being durably appended, and vice versa.
func (r *Redis) AppendLog(ctx context.Context, rec *structs.LogRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ie.ErrInvalidArg, err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, keyLogs+rec.JobID, data)
		pipe.Publish(ctx, keyLive+rec.JobID, data)
		return nil
	})
	return storeErr(err)
}

func (r *Redis) LogHistory(ctx context.Context, jobID string) ([]*structs.LogRecord, error) {
	raw, err := r.client.LRange(ctx, keyLogs+jobID, 0, -1).Result()
	if err != nil {
		return nil, storeErr(err)
	}

	out := make([]*structs.LogRecord, 0, len(raw))
	for _, payload := range raw {
		rec := &structs.LogRecord{}
		if err := json.Unmarshal([]byte(payload), rec); err != nil {
			log.Println("[Store]", "bad log record:", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Redis) LogLen(ctx context.Context, jobID string) (int64, error) {
	n, err := r.client.LLen(ctx, keyLogs+jobID).Result()
	return n, storeErr(err)
}

func (r *Redis) SubscribeLogs(ctx context.Context, jobID string) (<-chan *structs.LogRecord, func(), error) {
	payloads, closer, err := r.subscribe(ctx, keyLive+jobID)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan *structs.LogRecord, subBuffer)
	go func() {
		defer close(out)
		for payload := range payloads {
			rec := &structs.LogRecord{}
			if err := json.Unmarshal([]byte(payload), rec); err != nil {
				log.Println("[Store]", "bad log record:", err)
				continue
			}
			out <- rec
		}
	}()
	return out, closer, nil
}

func (r *Redis) SetLogRetention(ctx context.Context, jobID string, ttl time.Duration) error {
	if ttl <= 0 {
		return r.DeleteLogs(ctx, jobID)
	}
	return storeErr(r.client.Expire(ctx, keyLogs+jobID, ttl).Err())
}

func (r *Redis) DeleteLogs(ctx context.Context, jobID string) error {
	return storeErr(r.client.Del(ctx, keyLogs+jobID).Err())
}

func (r *Redis) PublishEvent(ctx context.Context, ev *structs.Completion) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %v", ie.ErrInvalidArg, err)
	}
	return storeErr(r.client.Publish(ctx, keyEvents, data).Err())
}

func (r *Redis) SubscribeEvents(ctx context.Context) (<-chan *structs.Completion, func(), error) {
	payloads, closer, err := r.subscribe(ctx, keyEvents)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan *structs.Completion, subBuffer)
	go func() {
		defer close(out)
		for payload := range payloads {
			ev := &structs.Completion{}
			if err := json.Unmarshal([]byte(payload), ev); err != nil {
				log.Println("[Store]", "bad event:", err)
				continue
			}
			out <- ev
		}
	}()
	return out, closer, nil
}

// subscribe attaches to a pub/sub channel, returning once the subscription
// is confirmed so nothing published afterwards can be missed.
func (r *Redis) subscribe(ctx context.Context, channel string) (<-chan string, func(), error) {
	ps := r.client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, storeErr(err)
	}

	stop := make(chan struct{})
	var once sync.Once
	closer := func() {
		once.Do(func() {
			close(stop)
			ps.Close()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			closer()
		case <-stop:
		}
	}()

	out := make(chan string, subBuffer)
	msgs := ps.Channel()
	go func() {
		defer close(out)
		for m := range msgs {
			select {
			case out <- m.Payload:
			case <-stop:
				return
			}
		}
	}()

	return out, closer, nil
}

func stagedFromFields(fields map[string]string) *structs.StagedJob {
	return &structs.StagedJob{
		ID:       fields[fieldID],
		Params:   json.RawMessage(fields[fieldParams]),
		StagedAt: atoi(fields[fieldStaged]),
	}
}

func jobFromFields(fields map[string]string) *structs.Job {
	meta := map[string]string{}
	if raw := fields[fieldMeta]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			log.Println("[Store]", "bad job meta:", err)
		}
	}
	return &structs.Job{
		SubmitSpec: structs.SubmitSpec{
			TimeoutSeconds:    atoi(fields[fieldTimeout]),
			ResultTTLSeconds:  atoi(fields[fieldResultTTL]),
			FailureTTLSeconds: atoi(fields[fieldFailureTTL]),
			Meta:              meta,
		},
		ID:            fields[fieldID],
		Status:        structs.ToStatus(fields[fieldStatus]),
		Args:          json.RawMessage(fields[fieldArgs]),
		EnqueuedAt:    atoi(fields[fieldEnqueued]),
		StartedAt:     atoi(fields[fieldStarted]),
		EndedAt:       atoi(fields[fieldEnded]),
		Result:        fields[fieldResult],
		Error:         fields[fieldError],
		StopRequested: fields[fieldStopReq] == "1",
	}
}

func atoi(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
