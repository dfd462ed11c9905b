package media

import (
	stdErrors "errors"
	"io"

	"github.com/neolink-go/neolink/internal/bcerrors"
	"github.com/neolink-go/neolink/internal/bufpool"
)

// Reader turns a binary-mode byte-stream (the payload of messages a
// bcwire.State has marked binary for a given msg_num) into a sequence of
// Frames. Not safe for concurrent use.
//
// When Strict is false (the default), a chunk that fails to match a known
// magic does not fail the stream: the reader advances one byte and retries,
// resynchronising on the next valid magic. Strict mode disables this and
// surfaces the CorruptFrame instead.
type Reader struct {
	r      io.Reader
	Strict bool
	buf    []byte
	fill   int
}

// NewReader creates a Reader over r in non-strict (resynchronising) mode.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: bufpool.Get(65536)}
}

// ReadFrame blocks until a complete Frame has arrived or the underlying
// reader fails.
func (r *Reader) ReadFrame() (*Frame, error) {
	skipped := 0
	for {
		if r.fill > 0 {
			frame, n, err := Decode(r.buf[:r.fill])
			switch {
			case err == nil:
				if skipped > 0 {
					// Resynchronised after dropping skipped leading bytes.
					skipped = 0
				}
				copy(r.buf, r.buf[n:r.fill])
				r.fill -= n
				return frame, nil
			case isIncomplete(err):
				// fall through to read more bytes below
			case !r.Strict:
				copy(r.buf, r.buf[1:r.fill])
				r.fill--
				skipped++
				continue
			default:
				return nil, err
			}
		}
		if r.fill == len(r.buf) {
			grown := make([]byte, len(r.buf)*2)
			copy(grown, r.buf[:r.fill])
			r.buf = grown
		}
		n, err := r.r.Read(r.buf[r.fill:])
		if n > 0 {
			r.fill += n
			continue
		}
		if err != nil {
			if err == io.EOF {
				return nil, bcerrors.NewTransport("media.read", io.ErrUnexpectedEOF)
			}
			return nil, bcerrors.NewTransport("media.read", err)
		}
	}
}

func isIncomplete(err error) bool {
	var incomplete *bcerrors.IncompleteFrame
	return stdErrors.As(err, &incomplete)
}
