package catalog

import (
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// LEDState is the camera's IR/status-LED configuration. LEDVersion is only
// ever populated by a get-reply; SetLEDState never sends it back, matching
// the original client's own note that it's a received-only field.
type LEDState struct {
	XMLName    xml.Name `xml:"body"`
	Version    string   `xml:"LedState>version,attr"`
	LEDVersion *string  `xml:"LedState>ledVersion,omitempty"`
	State      string   `xml:"LedState>state"`      // IR LED: "open" | "close" | "auto"
	LightState string   `xml:"LedState>lightState"` // status LED: "open" | "close"
}

// GetLEDState reads the camera's current LED configuration.
func GetLEDState(c *session.Connection, channelID int) (*LEDState, error) {
	header, payload, err := roundTrip(c, MsgIDGetLEDStatus, channelExtension(channelID), nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(header); err != nil {
		return nil, err
	}
	var out LEDState
	if err := xml.Unmarshal(payload, &out); err != nil {
		return nil, bcerrors.NewUnintelligibleReply("get-led-status reply did not parse as LedState xml", payload)
	}
	return &out, nil
}

// SetLEDState pushes state to the camera, dropping LEDVersion (get-only).
func SetLEDState(c *session.Connection, channelID int, state LEDState) error {
	state.LEDVersion = nil
	payload, err := xml.Marshal(state)
	if err != nil {
		return err
	}
	header, _, err := roundTrip(c, MsgIDSetLEDStatus, channelExtension(channelID), payload)
	if err != nil {
		return err
	}
	return checkOK(header)
}
