package runner

import (
	"regexp"
	"strconv"
	"strings"
)

// Inline signals the external process embeds in its stdout. Prefixes are
// exact matches; the bracket form is the tool's own aggregate progress line.
const (
	prefixStatus    = "status::"
	prefixProgress  = "progress::"
	prefixResults   = "Results directory: "
	prefixSubmitted = "Submitted process > "
	prefixStarting  = "Starting process > "

	markerSuccess = "success"
)

var reProcesses = regexp.MustCompile(`\[\s*(\d+)%\s*\]\s*(\d+) of (\d+) processes`)

// scanState accumulates everything learned from inline stdout signals
// over the lifetime of one run.
type scanState struct {
	status      string
	progress    int
	resultsDir  string
	currentTask string

	inlineDone  int
	inlineTotal int
}

func newScanState() *scanState {
	return &scanState{progress: -1}
}

// scan inspects one stdout line for embedded signals. Returns true if the
// state changed.
func (s *scanState) scan(line string) bool {
	line = strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(line, prefixStatus):
		s.status = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, prefixStatus)))
		return true
	case strings.HasPrefix(line, prefixProgress):
		v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, prefixProgress)))
		if err != nil {
			return false
		}
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		s.progress = v
		return true
	case strings.HasPrefix(line, prefixResults):
		s.resultsDir = strings.TrimSpace(strings.TrimPrefix(line, prefixResults))
		return true
	case strings.HasPrefix(line, prefixSubmitted):
		s.currentTask = taskLabel(strings.TrimPrefix(line, prefixSubmitted))
		return true
	case strings.HasPrefix(line, prefixStarting):
		s.currentTask = taskLabel(strings.TrimPrefix(line, prefixStarting))
		return true
	}

	if m := reProcesses.FindStringSubmatch(line); m != nil {
		// the tool reports cumulative counts, the latest line is the truth
		done, _ := strconv.Atoi(m[2])
		total, _ := strconv.Atoi(m[3])
		s.inlineDone = done
		s.inlineTotal = total
		return true
	}

	return false
}

func (s *scanState) succeeded() bool {
	return s.status == markerSuccess
}

// taskLabel simplifies a fully qualified subtask name to its last
// colon-delimited segment, eg. "WF:ALIGN:BWA (s1)" becomes "BWA (s1)".
func taskLabel(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}
