package catalog

import "github.com/neolink-go/neolink/internal/baichuan/session"

// Logout tells the camera the client is ending the session. The camera's
// own reply (if any) isn't waited on: a dropped transport after logout is
// not an error the caller needs to see.
func Logout(c *session.Connection) error {
	return c.Send(emptyPacket(MsgIDLogout, c.NextMsgNum()))
}
