package catalog

import (
	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/session"
)

// RegisterKeepAlive installs a standing handler that answers the camera's
// own keep-alive pings with an empty 200 reply. Unlike every other command
// in this package, the camera is the one initiating msg_id=MsgIDUDPKeepAlive
// requests; the client only ever replies to them.
func RegisterKeepAlive(c *session.Connection) {
	c.RegisterHandler(MsgIDUDPKeepAlive, func(pkt *bcwire.Packet) (*bcwire.Packet, error) {
		return &bcwire.Packet{
			Header: &bcwire.Header{
				MsgID:        MsgIDUDPKeepAlive,
				MsgNum:       pkt.Header.MsgNum,
				ResponseCode: 200,
				Class:        bcwire.ClassModern,
			},
			Body: &bcwire.Body{},
		}, nil
	})
}
