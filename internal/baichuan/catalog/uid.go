package catalog

import (
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

type uidReply struct {
	XMLName xml.Name `xml:"body"`
	UID     string   `xml:"Uid>uid"`
}

// GetUID requests the camera's persistent UID (the token used for P2P/relay
// discovery per §4.5, distinct from its network address).
func GetUID(c *session.Connection) (string, error) {
	header, payload, err := roundTrip(c, MsgIDUID, nil, nil)
	if err != nil {
		return "", err
	}
	if err := checkOK(header); err != nil {
		return "", err
	}
	var out uidReply
	if err := xml.Unmarshal(payload, &out); err != nil {
		return "", bcerrors.NewUnintelligibleReply("uid reply did not parse as Uid xml", payload)
	}
	return out.UID, nil
}
