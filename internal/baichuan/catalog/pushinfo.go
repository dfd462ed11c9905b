package catalog

import (
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/session"
)

// PhoneType selects which push-notification backend a registration token
// belongs to.
type PhoneType int

const (
	PhoneIOS PhoneType = iota
	PhoneAndroid
)

func (p PhoneType) wireToken() string {
	if p == PhoneAndroid {
		return "reo_fcm"
	}
	return "reo_iphone"
}

type pushInfo struct {
	XMLName   xml.Name `xml:"body"`
	Token     string   `xml:"PushInfo>token"`
	PhoneType string   `xml:"PushInfo>phoneType"`
	ClientID  string   `xml:"PushInfo>clientId"`
}

// RegisterPushInfo submits token (an APNS token for iOS, an FCM token for
// Android) so the camera includes this client in its push-notification
// fan-out.
func RegisterPushInfo(c *session.Connection, token, clientID string, phoneType PhoneType) error {
	body := pushInfo{Token: token, PhoneType: phoneType.wireToken(), ClientID: clientID}
	payload, err := xml.Marshal(body)
	if err != nil {
		return err
	}
	header, _, err := roundTrip(c, MsgIDPushInfo, nil, payload)
	if err != nil {
		return err
	}
	return checkOK(header)
}
