package catalog

import "github.com/neolink-go/neolink/internal/baichuan/session"

// Reboot asks the camera to restart and waits for its acknowledgement.
func Reboot(c *session.Connection) error {
	header, _, err := roundTrip(c, MsgIDReboot, nil, nil)
	if err != nil {
		return err
	}
	return checkOK(header)
}
