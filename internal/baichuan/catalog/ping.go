package catalog

import (
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// Ping round-trips an empty request on MsgIDPing and reports whether the
// camera answered at all; the reply's response code is not itself
// meaningful here (get_linktype, below, is the variant that parses it).
func Ping(c *session.Connection) error {
	_, _, err := roundTrip(c, MsgIDPing, nil, nil)
	return err
}

// LinkType is the camera's connection-quality report, carried in Ping's
// reply body under a successful response code.
type LinkType struct {
	XMLName xml.Name `xml:"body"`
	Type    string   `xml:"LinkType>type"`
}

// GetLinkType is ping's typed sibling: same request, but the reply is
// parsed into LinkType rather than discarded.
func GetLinkType(c *session.Connection) (*LinkType, error) {
	header, payload, err := roundTrip(c, MsgIDPing, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(header); err != nil {
		return nil, err
	}
	var out LinkType
	if err := xml.Unmarshal(payload, &out); err != nil {
		return nil, bcerrors.NewUnintelligibleReply("ping reply did not parse as LinkType xml", payload)
	}
	return &out, nil
}
