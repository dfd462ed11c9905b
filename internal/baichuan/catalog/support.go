package catalog

import (
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// Support describes which feature groups (PTZ, talk, ...) this camera
// model implements at all, as distinct from AbilityInfo's per-user
// permission on features it does implement.
type Support struct {
	XMLName xml.Name `xml:"body"`
	PTZ     *int     `xml:"Support>ptz,omitempty"`
	Talk    *int     `xml:"Support>talk,omitempty"`
}

// GetSupport requests the camera's feature-support report.
func GetSupport(c *session.Connection) (*Support, error) {
	header, payload, err := roundTrip(c, MsgIDGetSupport, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(header); err != nil {
		return nil, err
	}
	var out Support
	if err := xml.Unmarshal(payload, &out); err != nil {
		return nil, bcerrors.NewUnintelligibleReply("support reply did not parse as Support xml", payload)
	}
	return &out, nil
}
