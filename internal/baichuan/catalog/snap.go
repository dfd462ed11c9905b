package catalog

import (
	"encoding/xml"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

type snapRequest struct {
	XMLName      xml.Name `xml:"body"`
	ChannelID    int      `xml:"Snap>channelId"`
	LogicChannel *int     `xml:"Snap>logicChannel,omitempty"`
	Time         int      `xml:"Snap>time"`
	FullFrame    *int     `xml:"Snap>fullFrame,omitempty"`
	StreamType   *string  `xml:"Snap>streamType,omitempty"`
}

type snapReply struct {
	XMLName     xml.Name `xml:"body"`
	FileName    string   `xml:"Snap>name"`
	PictureSize int      `xml:"Snap>size"`
}

// GetSnapshot requests a single JPEG frame from channelID. The reply
// arrives as an XML Snap header (carrying the expected byte count)
// followed by one or more binary-marked payloads on the same msg_num,
// which bcwire's post-decode hook recognises from the extension's
// binary_data flag — the catalog layer just keeps draining the
// subscription until it has collected the declared size.
func GetSnapshot(c *session.Connection, channelID int) ([]byte, error) {
	msgNum := c.NextMsgNum()
	sub, err := c.Subscribe(msgNum)
	if err != nil {
		return nil, err
	}
	defer sub.Close()

	req := snapRequest{
		ChannelID:    channelID,
		LogicChannel: intPtr(channelID),
		Time:         0,
		FullFrame:    intPtr(0),
		StreamType:   strPtr("main"),
	}
	payload, err := xml.Marshal(req)
	if err != nil {
		return nil, err
	}
	pkt := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: MsgIDSnap, MsgNum: msgNum, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{Payload: payload},
	}
	if err := c.Send(pkt); err != nil {
		return nil, err
	}

	timer := time.NewTimer(requestTimeout)
	defer timer.Stop()

	var meta snapReply
	select {
	case reply := <-sub.Recv():
		if err := checkOK(reply.Header); err != nil {
			return nil, err
		}
		if err := xml.Unmarshal(reply.Body.Payload, &meta); err != nil {
			return nil, bcerrors.NewUnintelligibleReply("snap reply did not parse as Snap xml", reply.Body.Payload)
		}
	case <-sub.Done():
		return nil, bcerrors.NewDroppedConnection("catalog.snap.subscription_closed")
	case <-timer.C:
		return nil, bcerrors.NewTimeout("catalog.snap", requestTimeout, nil)
	}

	result := make([]byte, 0, meta.PictureSize)
	for len(result) < meta.PictureSize {
		if !timer.Stop() {
			<-timer.C
		}
		timer.Reset(requestTimeout)
		select {
		case chunk := <-sub.Recv():
			result = append(result, chunk.Body.Payload...)
		case <-sub.Done():
			return nil, bcerrors.NewDroppedConnection("catalog.snap.subscription_closed")
		case <-timer.C:
			return nil, bcerrors.NewTimeout("catalog.snap.payload", requestTimeout, nil)
		}
	}
	return result[:meta.PictureSize], nil
}
