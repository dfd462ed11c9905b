package catalog

import (
	"context"
	"encoding/xml"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/hooks"
	"github.com/neolink-go/neolink/internal/baichuan/session"
)

// FloodlightStatusList is the camera's unprompted floodlight-state push,
// registered via RegisterFloodlightStatusMonitor rather than requested.
type FloodlightStatusList struct {
	XMLName xml.Name             `xml:"body"`
	Status  []FloodlightStatus   `xml:"FloodlightStatusList>FloodlightStatus"`
}

// FloodlightStatus is one channel's entry within a FloodlightStatusList push.
type FloodlightStatus struct {
	ChannelID int `xml:"channelId"`
	Status    int `xml:"status"`
}

// RegisterFloodlightStatusMonitor installs a standing handler that decodes
// the camera's floodlight-status pushes onto a bounded channel. A full
// channel drops the newly arrived push rather than blocking the read loop;
// pushes already queued are kept.
func RegisterFloodlightStatusMonitor(c *session.Connection, depth int) <-chan FloodlightStatusList {
	ch := make(chan FloodlightStatusList, depth)
	c.RegisterHandler(MsgIDFloodlightStatusList, func(pkt *bcwire.Packet) (*bcwire.Packet, error) {
		var list FloodlightStatusList
		if err := xml.Unmarshal(pkt.Body.Payload, &list); err == nil {
			if mgr := c.Hooks(); mgr != nil {
				for _, status := range list.Status {
					event := hooks.NewEvent(hooks.EventFloodlight).WithCamera(c.ID()).WithChannel(status.ChannelID).
						WithData("status", status.Status)
					mgr.TriggerEvent(context.Background(), *event)
				}
			}
			select {
			case ch <- list:
			default:
			}
		}
		return nil, nil
	})
	return ch
}

// floodlightManual is the set-only manual-override request body.
type floodlightManual struct {
	XMLName   xml.Name `xml:"body"`
	Version   string   `xml:"FloodlightManual>version,attr"`
	ChannelID int      `xml:"FloodlightManual>channelId"`
	Status    int      `xml:"FloodlightManual>status"`
	Duration  uint16   `xml:"FloodlightManual>duration"`
}

// SetFloodlightManual forces the floodlight on or off for duration seconds.
// Some cameras accept the command without replying, so silence after 500ms
// is treated as success.
func SetFloodlightManual(c *session.Connection, channelID int, on bool, duration uint16) error {
	status := 0
	if on {
		status = 1
	}
	body := floodlightManual{Version: "1", ChannelID: channelID, Status: status, Duration: duration}
	payload, err := xml.Marshal(body)
	if err != nil {
		return err
	}
	return roundTripLenientAck(c, MsgIDFloodlightManual, channelExtension(channelID), payload, 500*time.Millisecond)
}
