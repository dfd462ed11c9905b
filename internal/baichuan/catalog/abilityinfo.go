package catalog

import (
	"encoding/xml"
	"strings"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// abilityToken carries one capability group's comma-joined ability list
// (e.g. "ptz_rw,ptz_ro" under <ptz><subModule abilityValue="..."/></ptz>).
type abilityToken struct {
	SubModules []struct {
		AbilityValue string `xml:"abilityValue,attr"`
	} `xml:"subModule"`
}

// AbilityInfo is the camera's per-user capability report: which commands
// this login is allowed to read (ro) or read-write (rw).
type AbilityInfo struct {
	XMLName   xml.Name      `xml:"body"`
	System    *abilityToken `xml:"System"`
	Network   *abilityToken `xml:"Network"`
	Alarm     *abilityToken `xml:"Alarm"`
	Image     *abilityToken `xml:"Image"`
	Video     *abilityToken `xml:"Video"`
	Security  *abilityToken `xml:"Security"`
	Replay    *abilityToken `xml:"Replay"`
	PTZ       *abilityToken `xml:"Ptz"`
	IO        *abilityToken `xml:"IO"`
	Streaming *abilityToken `xml:"Streaming"`
}

// ReadKind is a capability's access level under a given name.
type ReadKind int

const (
	ReadNone ReadKind = iota
	ReadOnly
	ReadWrite
)

// GetAbilityInfo requests the capability report for username, matching the
// permission-token string the original client requests all groups with.
func GetAbilityInfo(c *session.Connection, username string) (*AbilityInfo, error) {
	ext := &requestExtension{
		UserName: &username,
		Token:    strPtr("system, streaming, PTZ, IO, security, replay, disk, network, alarm, record, video, image"),
	}
	header, payload, err := roundTrip(c, MsgIDAbilityInfo, ext, nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(header); err != nil {
		return nil, err
	}
	var out AbilityInfo
	if err := xml.Unmarshal(payload, &out); err != nil {
		return nil, bcerrors.NewUnintelligibleReply("ability-info reply did not parse as AbilityInfo xml", payload)
	}
	return &out, nil
}

// Abilities flattens an AbilityInfo report into name -> access-level pairs,
// splitting each group's "name_rw,other_ro" ability-value string.
func Abilities(info *AbilityInfo) map[string]ReadKind {
	out := make(map[string]ReadKind)
	tokens := []*abilityToken{
		info.System, info.Network, info.Alarm, info.Image, info.Video,
		info.Security, info.Replay, info.PTZ, info.IO, info.Streaming,
	}
	for _, token := range tokens {
		if token == nil {
			continue
		}
		for _, sub := range token.SubModules {
			for _, entry := range strings.Split(strings.ReplaceAll(sub.AbilityValue, " ", ""), ",") {
				name, kind, ok := strings.Cut(entry, "_")
				if !ok {
					continue
				}
				switch kind {
				case "rw":
					out[name] = ReadWrite
				case "ro":
					out[name] = ReadOnly
				}
			}
		}
	}
	return out
}

func strPtr(s string) *string { return &s }
