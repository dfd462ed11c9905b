package bcwire

import (
	stdErrors "errors"
	"io"

	"github.com/neolink-go/neolink/internal/bcerrors"
	"github.com/neolink-go/neolink/internal/bufpool"
)

// Reader turns a reliable, ordered byte-stream (a TCP socket or the
// reassembled output of the UDP transport) into a sequence of Packets. Not
// safe for concurrent use; intended for a single read-loop goroutine.
type Reader struct {
	r      io.Reader
	st     *State
	aesKey [16]byte
	buf    []byte
	fill   int
}

// NewReader creates a Reader over r sharing encryption state st. aesKey is
// supplied once the session has derived it (zero value before then; AES
// mode is never selected before derivation completes).
func NewReader(r io.Reader, st *State, aesKey [16]byte) *Reader {
	return &Reader{r: r, st: st, aesKey: aesKey, buf: bufpool.Get(4096)}
}

// SetAESKey updates the key used for decoding once login derives it.
func (r *Reader) SetAESKey(key [16]byte) { r.aesKey = key }

// ReadPacket blocks until a complete Packet has arrived or the underlying
// reader fails. IncompleteFrame from Decode is handled internally by
// reading more bytes; it is never returned to the caller.
func (r *Reader) ReadPacket() (*Packet, error) {
	for {
		if r.fill > 0 {
			pkt, n, err := Decode(r.buf[:r.fill], r.st, r.aesKey)
			if err == nil {
				copy(r.buf, r.buf[n:r.fill])
				r.fill -= n
				return pkt, nil
			}
			var incomplete *bcerrors.IncompleteFrame
			if !stdErrors.As(err, &incomplete) {
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
				return nil, bcerrors.NewTransport("bcwire.read", io.ErrUnexpectedEOF)
			}
			return nil, bcerrors.NewTransport("bcwire.read", err)
		}
	}
}
