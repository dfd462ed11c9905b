package catalog

import (
	"encoding/xml"
	"fmt"

	"github.com/neolink-go/neolink/internal/baichuan/session"
)

// Direction is a PTZ movement command. Zoom (In/Out) is deliberately not
// offered here: original_source's own send_ptz left those two arms
// unimplemented (todo!()) even in the reference client, so there is no
// known wire command string to ground a Go equivalent on.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) wireCommand() (string, error) {
	switch d {
	case DirectionUp:
		return "up", nil
	case DirectionDown:
		return "down", nil
	case DirectionLeft:
		return "left", nil
	case DirectionRight:
		return "right", nil
	default:
		return "", fmt.Errorf("catalog: unknown ptz direction %d", d)
	}
}

type ptzControl struct {
	XMLName   xml.Name `xml:"body"`
	Version   string   `xml:"PtzControl>version,attr"`
	ChannelID int      `xml:"PtzControl>channelId"`
	Speed     float32  `xml:"PtzControl>speed"`
	Command   string   `xml:"PtzControl>command"`
}

// SendPTZ moves the camera in direction at the given speed, waiting for the
// camera's acknowledgement.
func SendPTZ(c *session.Connection, channelID int, direction Direction, speed float32) error {
	cmd, err := direction.wireCommand()
	if err != nil {
		return err
	}
	body := ptzControl{Version: "1.1", ChannelID: channelID, Speed: speed, Command: cmd}
	payload, err := xml.Marshal(body)
	if err != nil {
		return err
	}
	header, _, err := roundTrip(c, MsgIDPTZControl, channelExtension(channelID), payload)
	if err != nil {
		return err
	}
	return checkOK(header)
}
