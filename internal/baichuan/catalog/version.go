package catalog

import (
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// VersionInfo is the camera's firmware/hardware identification block.
type VersionInfo struct {
	XMLName         xml.Name `xml:"body"`
	Name            string   `xml:"DeviceInfo>name"`
	FirmwareVersion string   `xml:"DeviceInfo>firmwareVersion"`
	HardwareVersion string   `xml:"DeviceInfo>hardwareVersion"`
}

// GetVersion requests the camera's version-info block.
func GetVersion(c *session.Connection) (*VersionInfo, error) {
	header, payload, err := roundTrip(c, MsgIDVersion, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(header); err != nil {
		return nil, err
	}
	var out VersionInfo
	if err := xml.Unmarshal(payload, &out); err != nil {
		return nil, bcerrors.NewUnintelligibleReply("version reply did not parse as VersionInfo xml", payload)
	}
	return &out, nil
}
