package catalog

import (
	"context"
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/hooks"
	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// BatteryInfo is a single battery status reading.
type BatteryInfo struct {
	XMLName        xml.Name `xml:"body"`
	ChannelID      int      `xml:"channelId"`
	BatteryPercent int      `xml:"batteryPercent"`
	Temperature    int      `xml:"temperature"`
	LowPower       int      `xml:"lowPower"`
	AdapterStatus  int      `xml:"adapterStatus"`
	ChargeStatus   int      `xml:"chargeStatus"`
}

// BatteryInfoList is the camera's unprompted battery push, sent as part of
// login and again on low-battery events.
type BatteryInfoList struct {
	XMLName xml.Name      `xml:"body"`
	Entries []BatteryInfo `xml:"BatteryList>BatteryInfo"`
}

// RegisterBatteryMonitor installs a standing handler that decodes the
// camera's unprompted battery pushes (msg_id=MsgIDBatteryInfoList) onto a
// bounded channel.
func RegisterBatteryMonitor(c *session.Connection, depth int) <-chan BatteryInfoList {
	ch := make(chan BatteryInfoList, depth)
	c.RegisterHandler(MsgIDBatteryInfoList, func(pkt *bcwire.Packet) (*bcwire.Packet, error) {
		var list BatteryInfoList
		if err := xml.Unmarshal(pkt.Body.Payload, &list); err == nil {
			if mgr := c.Hooks(); mgr != nil {
				for _, info := range list.Entries {
					event := hooks.NewEvent(hooks.EventBattery).WithCamera(c.ID()).WithChannel(info.ChannelID).
						WithData("battery_percent", info.BatteryPercent).
						WithData("charge_status", info.ChargeStatus)
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

// GetBatteryInfo requests the current battery status on demand, distinct
// from the login-time push RegisterBatteryMonitor observes.
func GetBatteryInfo(c *session.Connection, channelID int) (*BatteryInfo, error) {
	header, payload, err := roundTrip(c, MsgIDBatteryInfo, channelExtension(channelID), nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(header); err != nil {
		return nil, err
	}
	var out BatteryInfo
	if err := xml.Unmarshal(payload, &out); err != nil {
		return nil, bcerrors.NewUnintelligibleReply("battery-info reply did not parse as BatteryInfo xml", payload)
	}
	return &out, nil
}
