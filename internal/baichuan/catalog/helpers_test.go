package catalog

import (
	"encoding/xml"
	"log/slog"
	"net"
	"testing"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// pairedConnections wires a client Connection and a raw bcwire peer (playing
// the camera side by hand) over a net.Pipe, mirroring
// session.pairedConnections but keeping the camera side unmanaged so tests
// can script arbitrary reply sequences.
func pairedConnections(t *testing.T) (client *session.Connection, camera net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	client = session.NewConnection("client", a, discardLogger())
	client.Start()
	t.Cleanup(func() { client.Close() })
	return client, b
}

// cameraPeer wraps the raw camera-side net.Conn with a bcwire reader/writer
// under ModeNone, enough for any catalog command (none of them depend on
// encryption mode).
type cameraPeer struct {
	reader *bcwire.Reader
	writer *bcwire.Writer
}

func newCameraPeer(conn net.Conn) *cameraPeer {
	st := bcwire.NewState()
	return &cameraPeer{reader: bcwire.NewReader(conn, st, [16]byte{}), writer: bcwire.NewWriter(conn, st)}
}

func (p *cameraPeer) readRequest(t *testing.T) *bcwire.Packet {
	t.Helper()
	pkt, err := p.reader.ReadPacket()
	if err != nil {
		t.Fatalf("camera: read request: %v", err)
	}
	return pkt
}

func (p *cameraPeer) reply(t *testing.T, msgID, msgNum uint32, responseCode uint16, payload []byte) {
	t.Helper()
	pkt := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: msgID, MsgNum: msgNum, ResponseCode: responseCode, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{Payload: payload},
	}
	if err := p.writer.WritePacket(pkt); err != nil {
		t.Fatalf("camera: write reply: %v", err)
	}
}

func marshalXML(t *testing.T, v any) []byte {
	t.Helper()
	b, err := xml.Marshal(v)
	if err != nil {
		t.Fatalf("marshal xml: %v", err)
	}
	return b
}

func unmarshalForTest(raw []byte, v any) error {
	return xml.Unmarshal(raw, v)
}
