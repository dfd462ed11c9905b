package catalog

import (
	"encoding/xml"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// systemGeneral is the camera's get/set-general XML body, carrying its
// clock and timezone. All time fields are pointers so a set-request can omit
// fields the get-reply didn't fill in (time_format, osd_format are left
// untouched on set).
type systemGeneral struct {
	XMLName  xml.Name `xml:"body"`
	Version  string   `xml:"SystemGeneral>version,attr"`
	TimeZone *int     `xml:"SystemGeneral>timeZone,omitempty"`
	Year     *int     `xml:"SystemGeneral>year,omitempty"`
	Month    *int     `xml:"SystemGeneral>month,omitempty"`
	Day      *int     `xml:"SystemGeneral>day,omitempty"`
	Hour     *int     `xml:"SystemGeneral>hour,omitempty"`
	Minute   *int     `xml:"SystemGeneral>minute,omitempty"`
	Second   *int     `xml:"SystemGeneral>second,omitempty"`
}

// epochBoundary mirrors the original client's heuristic for "camera has no
// time set yet": firmware resets to dates well before this are treated as
// unset rather than a real clock reading.
var epochBoundary = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

// GetTime reads the camera's clock. It returns (nil, nil) if the camera's
// reported date falls before epochBoundary, signalling no time has been set.
func GetTime(c *session.Connection) (*time.Time, error) {
	header, payload, err := roundTrip(c, MsgIDGetGeneral, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(header); err != nil {
		return nil, err
	}
	var out systemGeneral
	if err := xml.Unmarshal(payload, &out); err != nil {
		return nil, bcerrors.NewUnintelligibleReply("get-general reply did not parse as SystemGeneral xml", payload)
	}
	if out.TimeZone == nil || out.Year == nil || out.Month == nil || out.Day == nil ||
		out.Hour == nil || out.Minute == nil || out.Second == nil {
		return nil, bcerrors.NewUnintelligibleReply("SystemGeneral reply missing a time field", payload)
	}
	// Reolink reports positive seconds for a negative UTC offset.
	loc := time.FixedZone("", -*out.TimeZone)
	t := time.Date(*out.Year, time.Month(*out.Month), *out.Day, *out.Hour, *out.Minute, *out.Second, 0, loc)
	if t.Before(epochBoundary) {
		return nil, nil
	}
	return &t, nil
}

// SetTime pushes timestamp to the camera's clock.
func SetTime(c *session.Connection, timestamp time.Time) error {
	_, offsetSeconds := timestamp.Zone()
	year, month, day := timestamp.Date()
	hour, minute, second := timestamp.Clock()
	body := systemGeneral{
		Version:  "1.1",
		TimeZone: intPtr(-offsetSeconds),
		Year:     intPtr(year),
		Month:    intPtr(int(month)),
		Day:      intPtr(day),
		Hour:     intPtr(hour),
		Minute:   intPtr(minute),
		Second:   intPtr(second),
	}
	payload, err := xml.Marshal(body)
	if err != nil {
		return err
	}
	header, _, err := roundTrip(c, MsgIDSetGeneral, nil, payload)
	if err != nil {
		return err
	}
	return checkOK(header)
}

func intPtr(v int) *int { return &v }
