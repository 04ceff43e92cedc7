package structs

// StreamKind tags a log record with the stream it was captured from.
type StreamKind string

const (
	StreamStdout  StreamKind = "stdout"
	StreamStderr  StreamKind = "stderr"
	StreamStatus  StreamKind = "status"
	StreamError   StreamKind = "error"
	StreamControl StreamKind = "control"
)

// EndOfStream is the line carried by a job's final control record.
const EndOfStream = "EOF"

// LogRecord is one captured line of job output. Records are append-only
// per job; Seq is strictly increasing and gapless.
type LogRecord struct {
	JobID string     `json:"job_id"`
	Seq   int64      `json:"seq"`
	Kind  StreamKind `json:"kind"`
	Line  string     `json:"line"`
}

// IsEnd reports whether this record is the end-of-stream sentinel.
func (l *LogRecord) IsEnd() bool {
	return l.Kind == StreamControl && l.Line == EndOfStream
}

// Message converts the record to its wire envelope.
func (l *LogRecord) Message() *StreamMessage {
	return &StreamMessage{Type: l.Kind, Line: l.Line}
}

// StreamMessage is the websocket envelope delivered to log observers.
type StreamMessage struct {
	Type StreamKind `json:"type"`
	Line string     `json:"line"`
}

// IsEnd reports whether this message is the end-of-stream sentinel.
func (m *StreamMessage) IsEnd() bool {
	return m.Type == StreamControl && m.Line == EndOfStream
}
