// Package catalog implements the Baichuan message catalog (§4.8): the
// per-command request/reply XML schemas layered on top of a
// session.Connection, plus the handful of standing handlers the camera
// drives unprompted (keep-alive, battery push, floodlight push, motion
// alarm).
package catalog

import (
	"encoding/xml"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// requestTimeout is the default subscription-receive timeout for catalog
// commands (§5 "Timeouts").
const requestTimeout = 15 * time.Second

// requestExtension is the XML preamble carried ahead of a command's main
// payload on the wire. Only the fields a given command actually needs are
// set; the rest are omitted.
type requestExtension struct {
	XMLName   xml.Name `xml:"body"`
	ChannelID *int     `xml:"extensionInfo>channelId,omitempty"`
	RFID      *int     `xml:"extensionInfo>rfId,omitempty"`
	UserName  *string  `xml:"userName,omitempty"`
	Token     *string  `xml:"token,omitempty"`
}

func channelExtension(channelID int) *requestExtension {
	return &requestExtension{ChannelID: &channelID}
}

// roundTrip sends one request packet on msgID under a fresh msg_num and
// blocks for its reply. ext may be nil when the command carries no
// extension preamble; payload may be nil for commands with an empty body.
func roundTrip(c *session.Connection, msgID uint32, ext *requestExtension, payload []byte) (*bcwire.Header, []byte, error) {
	return roundTripTimeout(c, msgID, ext, payload, requestTimeout)
}

func roundTripTimeout(c *session.Connection, msgID uint32, ext *requestExtension, payload []byte, timeout time.Duration) (*bcwire.Header, []byte, error) {
	msgNum := c.NextMsgNum()
	sub, err := c.Subscribe(msgNum)
	if err != nil {
		return nil, nil, err
	}
	defer sub.Close()

	pkt := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: msgID, MsgNum: msgNum, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{},
	}
	if ext != nil {
		raw, err := xml.Marshal(ext)
		if err != nil {
			return nil, nil, err
		}
		pkt.Body.ExtensionRaw = raw
	}
	pkt.Body.Payload = payload

	if err := c.Send(pkt); err != nil {
		return nil, nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case reply := <-sub.Recv():
		return reply.Header, reply.Body.Payload, nil
	case <-sub.Done():
		return nil, nil, bcerrors.NewDroppedConnection("catalog.request.subscription_closed")
	case <-timer.C:
		return nil, nil, bcerrors.NewTimeout("catalog.request", timeout, nil)
	}
}

// roundTripLenientAck behaves like roundTrip but tolerates a camera that
// accepts a set-style command without ever sending a reply: after
// toleratedSilence it reports success rather than timing out. Several "set"
// commands (PIR config, floodlight manual) show this behavior in practice.
func roundTripLenientAck(c *session.Connection, msgID uint32, ext *requestExtension, payload []byte, toleratedSilence time.Duration) error {
	header, _, err := roundTripTimeout(c, msgID, ext, payload, toleratedSilence)
	if err != nil {
		if bcerrors.IsTimeout(err) {
			return nil
		}
		return err
	}
	return checkOK(header)
}

// emptyPacket builds a bare request packet with no extension or payload,
// the shape most fire-and-forget commands (logout, ping, reboot) use.
func emptyPacket(msgID, msgNum uint32) *bcwire.Packet {
	return &bcwire.Packet{
		Header: &bcwire.Header{MsgID: msgID, MsgNum: msgNum, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{},
	}
}

func checkOK(h *bcwire.Header) error {
	if h.ResponseCode != 200 {
		return bcerrors.NewServiceUnavailable(h.ResponseCode)
	}
	return nil
}
