package catalog

import (
	"encoding/xml"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// pirRetries and pirRetryInterval implement §4.9's named retry rule:
// get_pirstate with response 400 is retried, up to this many times, this far
// apart.
const (
	pirRetries      = 5
	pirRetryInterval = 500 * time.Millisecond
)

// RFAlarmCfg is the PIR (passive-infrared motion) alarm configuration. The
// same shape also answers the older motion-alarm msg_ids in
// original_source (MSG_ID_GET_MOTION_ALARM / MSG_ID_START_MOTION_ALARM);
// this package treats that as an alias of the PIR command rather than a
// second command, since both exchange the identical xml for the identical
// purpose.
type RFAlarmCfg struct {
	XMLName xml.Name `xml:"body"`
	Version string   `xml:"AlarmEventInfo>version,attr"`
	Enable  int      `xml:"AlarmEventInfo>enable"`
}

// GetPIRState reads the camera's PIR configuration, retrying up to
// pirRetries times at pirRetryInterval apart while the camera answers 400
// (observed to happen transiently on some firmware).
func GetPIRState(c *session.Connection, channelID int) (*RFAlarmCfg, error) {
	ext := &requestExtension{RFID: intPtr(channelID)}
	for attempt := 0; ; attempt++ {
		header, payload, err := roundTrip(c, MsgIDGetPIRAlarm, ext, nil)
		if err != nil {
			return nil, err
		}
		if header.ResponseCode == 400 {
			if attempt < pirRetries {
				time.Sleep(pirRetryInterval)
				continue
			}
			return nil, bcerrors.NewServiceUnavailable(header.ResponseCode)
		}
		if err := checkOK(header); err != nil {
			return nil, err
		}
		var out RFAlarmCfg
		if err := xml.Unmarshal(payload, &out); err != nil {
			return nil, bcerrors.NewUnintelligibleReply("get-pir-alarm reply did not parse as AlarmEventInfo xml", payload)
		}
		return &out, nil
	}
}

// SetPIRState pushes cfg to the camera. Some cameras accept the command
// without ever replying, so a silent camera after toleratedSilence is
// treated as success rather than a timeout error.
func SetPIRState(c *session.Connection, channelID int, cfg RFAlarmCfg) error {
	payload, err := xml.Marshal(cfg)
	if err != nil {
		return err
	}
	ext := &requestExtension{RFID: intPtr(channelID)}
	return roundTripLenientAck(c, MsgIDStartPIRAlarm, ext, payload, 500*time.Millisecond)
}
