package runner

// tailBuffer keeps the last capacity bytes of lines written to it. Used to
// hold a stderr snippet for diagnostics without buffering the whole stream.
type tailBuffer struct {
	capacity int
	buf      []byte
}

func newTailBuffer(capacity int) *tailBuffer {
	return &tailBuffer{capacity: capacity}
}

func (t *tailBuffer) WriteLine(line string) {
	if t.capacity <= 0 {
		return
	}
	t.buf = append(t.buf, line...)
	t.buf = append(t.buf, '\n')
	if len(t.buf) <= t.capacity {
		return
	}

	t.buf = t.buf[len(t.buf)-t.capacity:]
	// drop the leading partial line, unless that would drop everything
	for i, b := range t.buf {
		if b == '\n' && i+1 < len(t.buf) {
			t.buf = t.buf[i+1:]
			break
		}
	}
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
