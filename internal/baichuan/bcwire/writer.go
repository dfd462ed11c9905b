package bcwire

import (
	"io"

	"github.com/neolink-go/neolink/internal/bcerrors"
)

// Writer serialises outgoing Packets onto a byte-stream transport. Not safe
// for concurrent use; the session multiplexer owns a single writer goroutine
// draining its outbound channel.
type Writer struct {
	w  io.Writer
	st *State
}

// NewWriter creates a Writer over w sharing encryption state st. The AES
// key itself lives on st (installed via State.SetMode/ApplyEncryptionByte),
// not on the Writer, since encoding always uses whatever key is current.
func NewWriter(w io.Writer, st *State) *Writer {
	return &Writer{w: w, st: st}
}

// WritePacket encodes p under the session's current mode and writes it in
// one call.
func (w *Writer) WritePacket(p *Packet) error {
	buf, err := Encode(p, w.st)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(buf); err != nil {
		return bcerrors.NewTransport("bcwire.write", err)
	}
	return nil
}
