package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const traceHeader = "task_id\thash\tnative_id\tname\tstatus\texit\n"

func writeTrace(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseMissingFile(t *testing.T) {
	submitted := map[string]bool{}
	completed := map[string]bool{}

	offset, err := Parse(filepath.Join(t.TempDir(), "nope.txt"), 0, submitted, completed)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), offset)
	assert.Empty(t, submitted)
	assert.Empty(t, completed)
}

func TestParseIncremental(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	writeTrace(t, path, traceHeader+
		"1\taa/bb1122\t101\tfastqc (s1)\tCOMPLETED\t0\n"+
		"2\tcc/dd3344\t102\talign (s1)\tRUNNING\t-\n")

	submitted := map[string]bool{}
	completed := map[string]bool{}

	offset, err := Parse(path, 0, submitted, completed)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"aa/bb1122": true, "cc/dd3344": true}, submitted)
	assert.Equal(t, map[string]bool{"aa/bb1122": true}, completed)

	// the process finishes the second subtask and starts a third
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("3\tcc/dd3344\t102\talign (s1)\tcompleted\t0\n" +
		"4\tee/ff5566\t103\tquant (s1)\tSUBMITTED\t-\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	offset2, err := Parse(path, offset, submitted, completed)
	require.NoError(t, err)

	assert.Greater(t, offset2, offset)
	assert.Equal(t, map[string]bool{"aa/bb1122": true, "cc/dd3344": true, "ee/ff5566": true}, submitted)
	assert.Equal(t, map[string]bool{"aa/bb1122": true, "cc/dd3344": true}, completed)
}

func TestParseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	writeTrace(t, path, traceHeader+"1\taa/bb1122\t101\tfastqc\tCOMPLETED\t0\n")

	submitted := map[string]bool{}
	completed := map[string]bool{}

	offset, err := Parse(path, 0, submitted, completed)
	require.NoError(t, err)

	offset2, err := Parse(path, offset, submitted, completed)
	require.NoError(t, err)

	assert.Equal(t, offset, offset2)
	assert.Equal(t, map[string]bool{"aa/bb1122": true}, submitted)
	assert.Equal(t, map[string]bool{"aa/bb1122": true}, completed)
}

func TestParseShrunkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	writeTrace(t, path, traceHeader+"1\taa/bb1122\t101\tfastqc\tCOMPLETED\t0\n")

	submitted := map[string]bool{}
	completed := map[string]bool{}

	offset, err := Parse(path, 0, submitted, completed)
	require.NoError(t, err)

	writeTrace(t, path, "short\n")

	offset2, err := Parse(path, offset, submitted, completed)
	require.NoError(t, err)

	assert.Equal(t, offset, offset2)
	assert.Equal(t, map[string]bool{"aa/bb1122": true}, submitted)
}

func TestParsePartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	writeTrace(t, path, traceHeader+"1\taa/bb1122\t101\tfastqc\tCOM")

	submitted := map[string]bool{}
	completed := map[string]bool{}

	offset, err := Parse(path, 0, submitted, completed)
	require.NoError(t, err)

	// header consumed, fragment left for the next call
	assert.Equal(t, int64(len(traceHeader)), offset)
	assert.Empty(t, submitted)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("PLETED\t0\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Parse(path, offset, submitted, completed)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"aa/bb1122": true}, submitted)
	assert.Equal(t, map[string]bool{"aa/bb1122": true}, completed)
}

func TestParseSkipsJunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	writeTrace(t, path, traceHeader+
		"\n"+
		"1\t-\t101\tpending\tSUBMITTED\t-\n"+
		"2\t\t102\tpending\tSUBMITTED\t-\n"+
		"noseparator\n"+
		"3\taa/bb1122\t103\tfastqc\tCOMPLETED\t0\n")

	submitted := map[string]bool{}
	completed := map[string]bool{}

	_, err := Parse(path, 0, submitted, completed)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"aa/bb1122": true}, submitted)
	assert.Equal(t, map[string]bool{"aa/bb1122": true}, completed)
}

func TestParseCompletedSubsetOfSubmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	writeTrace(t, path, traceHeader+
		"1\taa/bb1122\t101\ta\tCOMPLETED\t0\n"+
		"2\tcc/dd3344\t102\tb\tRUNNING\t-\n"+
		"3\tee/ff5566\t103\tc\tFAILED\t1\n")

	submitted := map[string]bool{}
	completed := map[string]bool{}

	_, err := Parse(path, 0, submitted, completed)
	require.NoError(t, err)

	for hash := range completed {
		assert.True(t, submitted[hash], "completed hash %q not in submitted", hash)
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		Name        string
		Submitted   int
		Completed   int
		InlineDone  int
		InlineTotal int
		Expect      int
	}{
		{"NothingKnown", 0, 0, 0, 0, 0},
		{"TraceOnly", 4, 1, 0, 0, 25},
		{"InlineOnly", 0, 0, 2, 4, 50},
		{"InlineTotalLarger", 4, 4, 4, 8, 50},
		{"InlineDoneLarger", 4, 1, 3, 4, 75},
		{"TraceLarger", 10, 5, 2, 4, 50},
		{"Complete", 4, 4, 4, 4, 100},
		{"ClampsOver", 2, 2, 5, 2, 100},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			got := Percent(c.Submitted, c.Completed, c.InlineDone, c.InlineTotal)
			assert.Equal(t, c.Expect, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}
