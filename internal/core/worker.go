package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/seqward/stoker/internal/runner"
	ie "github.com/seqward/stoker/pkg/errors"
	"github.com/seqward/stoker/pkg/structs"
)

const runMetadataFile = "run_metadata.json"

// Worker executes jobs pulled off the work queue, one at a time. It shares
// the Service's store, broadcaster and finalizer so that a job ends the
// same way no matter which side ends it.
type Worker struct {
	svc *Service
	run *runner.Runner
}

// NewWorker returns a Worker executing jobs through the given service.
func NewWorker(svc *Service) *Worker {
	return &Worker{svc: svc, run: runner.NewRunner(svc.opts.Runner)}
}

// Handle runs one dequeued job start to finish. The job record is always
// finalized before Handle returns, panics included; queue retries are
// disabled so the error return is informational only.
func (w *Worker) Handle(ctx context.Context, jobID string) error {
	job, err := w.svc.db.Job(ctx, jobID)
	if err != nil {
		if errors.Is(err, ie.ErrNotFound) {
			log.Println("[Worker]", "job", jobID, "no longer exists, skipping")
			return nil
		}
		return err
	}
	if structs.IsFinalStatus(job.Status) {
		// finalized while it sat in the queue (eg. stopped)
		return nil
	}
	if job.StopRequested {
		w.svc.finalize(context.Background(), job, &runner.Result{Status: structs.STOPPED}, nil)
		return nil
	}

	now := time.Now().Unix()
	if err := w.svc.db.MarkJobStarted(ctx, jobID, now); err != nil {
		return err
	}
	if err := w.svc.db.RemoveRegistry(ctx, structs.QUEUED, jobID); err != nil {
		log.Println("[Worker]", "removing", jobID, "from queued registry:", err)
	}
	if err := w.svc.db.AddRegistry(ctx, structs.STARTED, jobID, now); err != nil {
		log.Println("[Worker]", "adding", jobID, "to started registry:", err)
	}
	job.Status = structs.STARTED
	job.StartedAt = now

	// log writes outlive a cancelled handler context
	sink := func(kind structs.StreamKind, line string) {
		if err := w.svc.bc.Publish(context.Background(), jobID, kind, line); err != nil {
			log.Println("[Worker]", "publishing log record for", jobID, ":", err)
		}
	}
	sink(structs.StreamStatus, string(structs.STARTED))

	meta := runner.NewMetaBuffer(job.Meta, w.svc.opts.MetaFlushInterval, func(m map[string]string) error {
		return w.svc.db.SetJobMeta(context.Background(), jobID, m)
	})

	res, workDir := w.execute(ctx, job, meta, sink)
	recordOutcome(meta, res)

	if res.Status == structs.FINISHED && res.ResultsDir != "" {
		if err := writeRunMetadata(res.ResultsDir, meta.Snapshot()); err != nil {
			log.Println("[Worker]", "writing", runMetadataFile, "for", jobID, ":", err)
		}
	}

	w.svc.finalize(context.Background(), job, res, meta)
	w.cleanupWork(jobID, workDir, res)
	return nil
}

// execute decodes the job's args & supervises the process. It never lets a
// panic escape; the caller always gets a terminal Result back. workDir is
// non-empty only when the worker made a temporary one.
func (w *Worker) execute(ctx context.Context, job *structs.Job, meta *runner.MetaBuffer, sink runner.Sink) (res *runner.Result, workDir string) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("[Worker]", "panic executing job", job.ID, ":", r)
			res = failedResult(fmt.Errorf("%w panic: %v", ie.ErrRunFailed, r))
		}
	}()

	spec := &structs.RunSpec{}
	if err := json.Unmarshal(job.Args, spec); err != nil {
		res = failedResult(fmt.Errorf("%w args do not decode to a run spec: %v", ie.ErrLaunchFailed, err))
		return
	}
	if spec.Path == "" {
		res = failedResult(fmt.Errorf("%w run spec names no executable", ie.ErrLaunchFailed))
		return
	}

	if spec.Dir == "" {
		dir, err := os.MkdirTemp("", "stoker-"+job.ID+"-")
		if err != nil {
			res = failedResult(fmt.Errorf("%w creating work dir: %v", ie.ErrLaunchFailed, err))
			return
		}
		spec.Dir = dir
		workDir = dir
	}

	out, err := w.run.Run(ctx, spec, job.Timeout(), meta, sink)
	if err != nil {
		res = failedResult(err)
		return
	}
	if out.ResultsDir != "" && !filepath.IsAbs(out.ResultsDir) {
		out.ResultsDir = filepath.Join(spec.Dir, out.ResultsDir)
	}
	res = out
	return
}

// cleanupWork removes a work dir the worker created, unless told to keep
// them or the announced results live inside it.
func (w *Worker) cleanupWork(jobID, workDir string, res *runner.Result) {
	if workDir == "" || w.svc.opts.KeepWork {
		return
	}
	if res.ResultsDir == workDir || strings.HasPrefix(res.ResultsDir, workDir+string(os.PathSeparator)) {
		log.Println("[Worker]", "results for", jobID, "are inside its work dir, keeping", workDir)
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		log.Println("[Worker]", "removing work dir", workDir, ":", err)
	}
}

// recordOutcome copies the run's measurements into the job's meta.
func recordOutcome(meta *runner.MetaBuffer, res *runner.Result) {
	if res.StderrTail != "" {
		meta.Set(structs.MetaStderrTail, res.StderrTail)
	}
	if res.PeakRSS > 0 {
		meta.Set(structs.MetaPeakRSSBytes, strconv.FormatUint(res.PeakRSS, 10))
	}
	if res.AvgCPU > 0 {
		meta.Set(structs.MetaAvgCPUPercent, strconv.FormatFloat(res.AvgCPU, 'f', 1, 64))
	}
	if res.ResultsDir != "" {
		meta.Set(structs.MetaResultsDir, res.ResultsDir)
	}
	if res.Status == structs.FINISHED {
		meta.Set(structs.MetaCurrentTask, structs.CurrentTaskDone)
		meta.Set(structs.MetaOverallProgress, "100")
	}
}

// writeRunMetadata drops the job's final meta beside its results.
func writeRunMetadata(dir string, meta map[string]string) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, runMetadataFile), data, 0644)
}

func failedResult(err error) *runner.Result {
	return &runner.Result{Status: structs.FAILED, Err: err, ExitCode: -1}
}
