package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ie "github.com/seqward/stoker/pkg/errors"
	"github.com/seqward/stoker/pkg/structs"
)

func testOpts() *Options {
	return &Options{
		SampleInterval: 50 * time.Millisecond,
		TracePoll:      50 * time.Millisecond,
		TermGrace:      2 * time.Second,
		TailBytes:      1024,
	}
}

func testMeta() *MetaBuffer {
	return NewMetaBuffer(nil, 10*time.Millisecond, func(map[string]string) error { return nil })
}

type recorded struct {
	kind structs.StreamKind
	line string
}

func shSpec(t *testing.T, script string) *structs.RunSpec {
	t.Helper()
	return &structs.RunSpec{Path: "/bin/sh", Args: []string{"-c", script}, Dir: t.TempDir()}
}

func TestRunSuccess(t *testing.T) {
	script := `
echo "Submitted process > WF:ALIGN:BWA (s1)"
echo "progress::45"
echo "[ 50% ] 1 of 2 processes"
echo "Results directory: /tmp/out42"
echo "oops" 1>&2
echo "status::success"
exit 0`

	meta := testMeta()
	got := []recorded{}
	sink := func(kind structs.StreamKind, line string) {
		got = append(got, recorded{kind, line})
	}

	res, err := NewRunner(testOpts()).Run(context.Background(), shSpec(t, script), time.Minute, meta, sink)
	require.NoError(t, err)

	assert.Equal(t, structs.FINISHED, res.Status)
	assert.NoError(t, res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "/tmp/out42", res.ResultsDir)
	assert.Contains(t, res.StderrTail, "oops")

	assert.Equal(t, "45", meta.Get(structs.MetaOverallProgress))
	assert.Equal(t, "BWA (s1)", meta.Get(structs.MetaCurrentTask))
	assert.Equal(t, "/tmp/out42", meta.Get(structs.MetaResultsDir))
	assert.Equal(t, "50", meta.Get(structs.MetaPipelineProgress))

	// stdout lines arrive in capture order
	stdout := []string{}
	sawStderr := false
	for _, r := range got {
		if r.kind == structs.StreamStdout {
			stdout = append(stdout, r.line)
		}
		if r.kind == structs.StreamStderr {
			sawStderr = true
		}
	}
	assert.Equal(t, []string{
		"Submitted process > WF:ALIGN:BWA (s1)",
		"progress::45",
		"[ 50% ] 1 of 2 processes",
		"Results directory: /tmp/out42",
		"status::success",
	}, stdout)
	assert.True(t, sawStderr)
}

func TestRunExitNonZero(t *testing.T) {
	script := `
echo "starting up"
echo "boom: no such sample" 1>&2
exit 3`

	res, err := NewRunner(testOpts()).Run(context.Background(), shSpec(t, script), time.Minute, testMeta(), func(structs.StreamKind, string) {})
	require.NoError(t, err)

	assert.Equal(t, structs.FAILED, res.Status)
	assert.ErrorIs(t, res.Err, ie.ErrRunFailed)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.StderrTail, "boom: no such sample")
}

func TestRunExitZeroWithoutMarker(t *testing.T) {
	res, err := NewRunner(testOpts()).Run(context.Background(), shSpec(t, `echo "all done"`), time.Minute, testMeta(), func(structs.StreamKind, string) {})
	require.NoError(t, err)

	assert.Equal(t, structs.FAILED, res.Status)
	assert.ErrorIs(t, res.Err, ie.ErrRunFailed)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunFailedMarkerBeatsExitZero(t *testing.T) {
	res, err := NewRunner(testOpts()).Run(context.Background(), shSpec(t, `echo "status::failed"`), time.Minute, testMeta(), func(structs.StreamKind, string) {})
	require.NoError(t, err)

	assert.Equal(t, structs.FAILED, res.Status)
	assert.ErrorIs(t, res.Err, ie.ErrRunFailed)
}

func TestRunLaunchFailed(t *testing.T) {
	spec := &structs.RunSpec{Path: "stoker-no-such-binary-xyz"}

	res, err := NewRunner(testOpts()).Run(context.Background(), spec, time.Minute, testMeta(), func(structs.StreamKind, string) {})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ie.ErrLaunchFailed)
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()

	res, err := NewRunner(testOpts()).Run(context.Background(), shSpec(t, `sleep 30`), 200*time.Millisecond, testMeta(), func(structs.StreamKind, string) {})
	require.NoError(t, err)

	assert.Equal(t, structs.FAILED, res.Status)
	assert.ErrorIs(t, res.Err, ie.ErrTimeout)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	start := time.Now()

	res, err := NewRunner(testOpts()).Run(ctx, shSpec(t, `sleep 30`), time.Minute, testMeta(), func(structs.StreamKind, string) {})
	require.NoError(t, err)

	assert.Equal(t, structs.STOPPED, res.Status)
	assert.NoError(t, res.Err)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunReadsTraceFile(t *testing.T) {
	dir := t.TempDir()
	content := "task_id\thash\tnative_id\tname\tstatus\texit\n" +
		"1\taa/bb1122\t101\tfastqc\tCOMPLETED\t0\n" +
		"2\tcc/dd3344\t102\talign\tRUNNING\t-\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, structs.DefaultTraceFile), []byte(content), 0o644))

	meta := testMeta()
	spec := &structs.RunSpec{Path: "/bin/sh", Args: []string{"-c", `echo "status::success"`}, Dir: dir}

	res, err := NewRunner(testOpts()).Run(context.Background(), spec, time.Minute, meta, func(structs.StreamKind, string) {})
	require.NoError(t, err)

	assert.Equal(t, structs.FINISHED, res.Status)
	assert.Equal(t, "50", meta.Get(structs.MetaPipelineProgress))
}

func TestRunEnvOverrides(t *testing.T) {
	lines := []string{}
	sink := func(kind structs.StreamKind, line string) {
		if kind == structs.StreamStdout {
			lines = append(lines, line)
		}
	}

	spec := shSpec(t, `echo "var=$STOKER_TEST_VAR"; echo "status::success"`)
	spec.Env = map[string]string{"STOKER_TEST_VAR": "hello"}

	res, err := NewRunner(testOpts()).Run(context.Background(), spec, time.Minute, testMeta(), sink)
	require.NoError(t, err)

	assert.Equal(t, structs.FINISHED, res.Status)
	assert.Contains(t, lines, "var=hello")
}
