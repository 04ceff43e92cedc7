// Package runner supervises one external pipeline process per job: it
// launches the process, captures both output streams line by line without
// blocking either, scans stdout for embedded signals, samples resource
// usage, polls the progress trace file and decides the final outcome.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seqward/stoker/internal/trace"
	ie "github.com/seqward/stoker/pkg/errors"
	"github.com/seqward/stoker/pkg/structs"
)

const (
	defaultSampleInterval = 5 * time.Second
	defaultTracePoll      = 5 * time.Second
	defaultTermGrace      = 10 * time.Second
	defaultTailBytes      = 8 * 1024

	lineBacklog  = 512
	maxLineBytes = 1024 * 1024
)

// Sink receives every captured output line, tagged by stream kind.
type Sink func(kind structs.StreamKind, line string)

// Options for a Runner. Zero values are replaced by defaults.
type Options struct {
	// SampleInterval is the resource sampling cadence.
	SampleInterval time.Duration

	// TracePoll is how often the progress trace file is checked.
	TracePoll time.Duration

	// TermGrace is how long a cancelled process has to exit after SIGTERM
	// before the whole process group is killed.
	TermGrace time.Duration

	// TailBytes is how much trailing stderr is kept as a diagnostic snippet.
	TailBytes int
}

func (o *Options) SetDefaults() {
	if o.SampleInterval <= 0 {
		o.SampleInterval = defaultSampleInterval
	}
	if o.TracePoll <= 0 {
		o.TracePoll = defaultTracePoll
	}
	if o.TermGrace <= 0 {
		o.TermGrace = defaultTermGrace
	}
	if o.TailBytes <= 0 {
		o.TailBytes = defaultTailBytes
	}
}

// Result is everything the supervisor learned from one run.
type Result struct {
	// Status is the terminal outcome: finished, failed or stopped.
	Status structs.Status

	// Err explains a failed run (wraps ErrRunFailed or ErrTimeout).
	Err error

	// ExitCode of the process, -1 if it never ran to a recorded exit.
	ExitCode int

	// ResultsDir is the output location the process announced, if any.
	ResultsDir string

	// StderrTail is the last few KiB of stderr.
	StderrTail string

	PeakRSS uint64
	AvgCPU  float64
}

type Runner struct {
	opts *Options
}

func NewRunner(opts *Options) *Runner {
	if opts == nil {
		opts = &Options{}
	}
	opts.SetDefaults()
	return &Runner{opts: opts}
}

type capturedLine struct {
	kind structs.StreamKind
	text string
}

type traceState struct {
	path      string
	offset    int64
	submitted map[string]bool
	completed map[string]bool
}

func (t *traceState) poll() error {
	off, err := trace.Parse(t.path, t.offset, t.submitted, t.completed)
	t.offset = off
	return err
}

// activeRun is the per-run state the control loop threads through.
type activeRun struct {
	meta  *MetaBuffer
	sink  Sink
	state *scanState
	tail  *tailBuffer
	usage *usageSampler
	trace *traceState
}

// Run launches the process described by spec and supervises it to completion.
// A launch problem returns ErrLaunchFailed with a nil Result; once the
// process starts Run always returns a Result. Cancelling ctx stops the run
// cooperatively (SIGTERM, grace, SIGKILL); exceeding timeout kills the
// process group outright and fails the job.
func (r *Runner) Run(ctx context.Context, spec *structs.RunSpec, timeout time.Duration, meta *MetaBuffer, sink Sink) (*Result, error) {
	path, err := exec.LookPath(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ie.ErrLaunchFailed, spec.Path, err)
	}

	cmd := exec.Command(path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = buildEnv(spec.Env)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ie.ErrLaunchFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ie.ErrLaunchFailed, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ie.ErrLaunchFailed, err)
	}
	pgid := cmd.Process.Pid

	// one reader per stream feeding a merged sink consumed by the loop below
	lines := make(chan capturedLine, lineBacklog)
	grp := &errgroup.Group{}
	grp.Go(func() error { return readStream(structs.StreamStdout, stdout, lines) })
	grp.Go(func() error { return readStream(structs.StreamStderr, stderr, lines) })
	go func() {
		grp.Wait()
		close(lines)
	}()

	run := &activeRun{
		meta:  meta,
		sink:  sink,
		state: newScanState(),
		tail:  newTailBuffer(r.opts.TailBytes),
		usage: newUsageSampler(pgid),
		trace: &traceState{path: spec.TracePath(), submitted: map[string]bool{}, completed: map[string]bool{}},
	}
	run.sampleUsage()

	sampleTick := time.NewTicker(r.opts.SampleInterval)
	defer sampleTick.Stop()
	traceTick := time.NewTicker(r.opts.TracePoll)
	defer traceTick.Stop()

	var timeoutC <-chan time.Time
	if timeout > 0 {
		tm := time.NewTimer(timeout)
		defer tm.Stop()
		timeoutC = tm.C
	}

	var graceC <-chan time.Time
	done := ctx.Done()
	cancelled := false
	timedOut := false

loop:
	for {
		select {
		case l, ok := <-lines:
			if !ok {
				break loop
			}
			run.handleLine(l)
		case <-sampleTick.C:
			run.sampleUsage()
			run.flushMeta()
		case <-traceTick.C:
			run.pollTrace()
			run.flushMeta()
		case <-done:
			// cooperative stop: ask nicely, keep capturing until exit
			cancelled = true
			done = nil
			syscall.Kill(-pgid, syscall.SIGTERM)
			gt := time.NewTimer(r.opts.TermGrace)
			defer gt.Stop()
			graceC = gt.C
		case <-graceC:
			graceC = nil
			syscall.Kill(-pgid, syscall.SIGKILL)
		case <-timeoutC:
			timedOut = true
			timeoutC = nil
			syscall.Kill(-pgid, syscall.SIGKILL)
		}
	}

	if err := grp.Wait(); err != nil {
		// capture degraded, the run itself carries on to its own outcome
		log.Println("[Runner]", "stream read error:", err)
		sink(structs.StreamError, fmt.Sprintf("log capture degraded: %v", err))
	}

	waitErr := cmd.Wait()

	run.pollTrace()
	run.sampleUsage()

	res := &Result{
		ExitCode:   exitCode(waitErr),
		ResultsDir: run.state.resultsDir,
		StderrTail: run.tail.String(),
		PeakRSS:    run.usage.PeakRSS(),
		AvgCPU:     run.usage.AvgCPU(),
	}

	switch {
	case timedOut:
		res.Status = structs.FAILED
		res.Err = fmt.Errorf("%w after %s", ie.ErrTimeout, timeout)
	case cancelled:
		res.Status = structs.STOPPED
	case waitErr != nil:
		res.Status = structs.FAILED
		res.Err = fmt.Errorf("%w: %v", ie.ErrRunFailed, waitErr)
	case !run.state.succeeded():
		// exit 0 alone is ambiguous, the success marker is required
		res.Status = structs.FAILED
		res.Err = fmt.Errorf("%w: exited 0 without success marker", ie.ErrRunFailed)
	default:
		res.Status = structs.FINISHED
	}

	return res, nil
}

func (a *activeRun) handleLine(l capturedLine) {
	a.sink(l.kind, l.text)

	if l.kind == structs.StreamStderr {
		a.tail.WriteLine(l.text)
		return
	}
	if !a.state.scan(l.text) {
		return
	}

	if a.state.progress >= 0 {
		a.meta.Set(structs.MetaOverallProgress, strconv.Itoa(a.state.progress))
	}
	if a.state.currentTask != "" {
		a.meta.Set(structs.MetaCurrentTask, a.state.currentTask)
	}
	if a.state.resultsDir != "" {
		a.meta.Set(structs.MetaResultsDir, a.state.resultsDir)
	}
	a.updateProgress()
	a.flushMeta()
}

func (a *activeRun) sampleUsage() {
	a.usage.sample()
	if !a.usage.sampled() {
		return
	}
	a.meta.Set(structs.MetaPeakRSSBytes, strconv.FormatUint(a.usage.PeakRSS(), 10))
	a.meta.Set(structs.MetaAvgCPUPercent, strconv.FormatFloat(a.usage.AvgCPU(), 'f', 1, 64))
}

func (a *activeRun) pollTrace() {
	if err := a.trace.poll(); err != nil {
		log.Println("[Runner]", "trace poll:", err)
		return
	}
	a.updateProgress()
}

func (a *activeRun) updateProgress() {
	if len(a.trace.submitted) == 0 && a.state.inlineTotal == 0 {
		return
	}
	pct := trace.Percent(len(a.trace.submitted), len(a.trace.completed), a.state.inlineDone, a.state.inlineTotal)
	a.meta.Set(structs.MetaPipelineProgress, strconv.Itoa(pct))
}

func (a *activeRun) flushMeta() {
	if err := a.meta.Flush(false); err != nil {
		log.Println("[Runner]", "flush meta:", err)
	}
}

func readStream(kind structs.StreamKind, in io.Reader, out chan<- capturedLine) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		out <- capturedLine{kind: kind, text: sc.Text()}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return nil
}

func buildEnv(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
