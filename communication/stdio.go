package communication

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrMalformed wraps decode failures of a single message. The stream stays
// usable after it.
var ErrMalformed = errors.New("malformed message")

// maxLine bounds one JSON message.
const maxLine = 1 << 20

type line struct {
	data []byte
	err  error
}

// Stream is a Transport exchanging one JSON object per line, for example
// over stdin and stdout.
type Stream struct {
	mu    sync.Mutex
	w     io.Writer
	lines chan line
}

// NewStream starts reading r in the background.
func NewStream(r io.Reader, w io.Writer) *Stream {
	s := &Stream{w: w, lines: make(chan line)}
	go s.read(r)
	return s
}

func (s *Stream) read(r io.Reader) {
	defer close(s.lines)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		data := append([]byte(nil), sc.Bytes()...)
		if len(data) == 0 {
			continue
		}
		s.lines <- line{data: data}
	}
	if err := sc.Err(); err != nil {
		s.lines <- line{err: err}
	}
}

// Receive returns the next decoded intent. A line that fails to decode is
// returned as an error without ending the stream.
func (s *Stream) Receive(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case l, ok := <-s.lines:
		if !ok {
			return nil, io.EOF
		}
		if l.err != nil {
			return nil, l.err
		}
		intent, err := DecodeIntent(l.data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return intent, nil
	}
}

// Send writes one report. It is safe for concurrent use.
func (s *Stream) Send(msg Report) error {
	data, err := EncodeReport(msg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(append(data, '\n'))
	return err
}
