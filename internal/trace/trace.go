// Package trace incrementally parses the progress trace file the external
// pipeline process writes while it runs. The file is tab-separated with a
// header line; each record names one subtask (by hash) and its status.
// The file is polled while the process runs, so the parser must tolerate
// the file not existing yet, growing between calls, and ending mid-line.
package trace

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
)

const (
	headerPrefix = "task_id\t"
	placeholder  = "-"
	statusDone   = "COMPLETED"

	fieldHash   = 1
	fieldStatus = 4
)

// Parse reads records past offset, adding subtask hashes to submitted and,
// where the record's status normalizes to COMPLETED, to completed.
// The returned offset points past the last complete line consumed.
//
// A missing file or a file that shrank (or did not grow) returns the inputs
// unchanged; the parser never re-reads from the start mid-run. Repeated
// calls with an unchanged file leave the sets identical.
func Parse(path string, offset int64, submitted, completed map[string]bool) (int64, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return offset, nil
	}
	if err != nil {
		return offset, err
	}
	if fi.Size() <= offset {
		return offset, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return offset, err
	}
	defer f.Close()

	if _, err = f.Seek(offset, io.SeekStart); err != nil {
		return offset, err
	}

	buf := make([]byte, fi.Size()-offset)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return offset, err
	}
	buf = buf[:n]

	// only consume terminated lines; a trailing fragment is mid-write
	end := bytes.LastIndexByte(buf, '\n')
	if end < 0 {
		return offset, nil
	}

	for _, line := range strings.Split(string(buf[:end]), "\n") {
		parseLine(line, submitted, completed)
	}

	return offset + int64(end) + 1, nil
}

func parseLine(line string, submitted, completed map[string]bool) {
	line = strings.TrimRight(line, "\r")
	if line == "" || strings.HasPrefix(line, headerPrefix) {
		return
	}

	fields := strings.Split(line, "\t")
	if len(fields) <= fieldHash {
		return
	}

	hash := strings.TrimSpace(fields[fieldHash])
	if hash == "" || hash == placeholder {
		return
	}
	submitted[hash] = true

	if len(fields) <= fieldStatus {
		return
	}
	if strings.ToUpper(strings.TrimSpace(fields[fieldStatus])) == statusDone {
		completed[hash] = true
	}
}

// Percent reconciles the trace-derived counts with the counts the tool
// reports on stdout. The two sources race and can diverge when subtasks
// are skipped or cached; the larger cumulative count wins.
func Percent(submitted, completed, inlineDone, inlineTotal int) int {
	total := submitted
	if inlineTotal > total {
		total = inlineTotal
	}
	done := completed
	if inlineDone > done {
		done = inlineDone
	}

	if total <= 0 {
		return 0
	}
	pct := done * 100 / total
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
