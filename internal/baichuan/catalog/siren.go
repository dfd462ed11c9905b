package catalog

import (
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/session"
)

type audioPlayInfo struct {
	XMLName      xml.Name `xml:"body"`
	ChannelID    int      `xml:"AudioPlayInfo>channelId"`
	PlayMode     int      `xml:"AudioPlayInfo>playMode"`
	PlayDuration int      `xml:"AudioPlayInfo>playDuration"`
	PlayTimes    int      `xml:"AudioPlayInfo>playTimes"`
	OnOff        int      `xml:"AudioPlayInfo>onOff"`
}

// TriggerSiren sounds the camera's built-in siren once.
func TriggerSiren(c *session.Connection, channelID int) error {
	body := audioPlayInfo{ChannelID: channelID, PlayMode: 0, PlayDuration: 0, PlayTimes: 1, OnOff: 0}
	payload, err := xml.Marshal(body)
	if err != nil {
		return err
	}
	header, _, err := roundTrip(c, MsgIDPlayAudio, channelExtension(channelID), payload)
	if err != nil {
		return err
	}
	return checkOK(header)
}
