package catalog

import (
	"encoding/xml"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// StreamInfo describes one encoding the camera can serve (resolution,
// codec, bitrate); StreamInfoList is the full set a camera offers.
type StreamInfo struct {
	StreamType  string `xml:"streamType"`
	Width       int    `xml:"width"`
	Height      int    `xml:"height"`
	FrameRate   int    `xml:"frameRate"`
	BitRate     int    `xml:"bitRate"`
}

type StreamInfoList struct {
	XMLName xml.Name     `xml:"body"`
	Streams []StreamInfo `xml:"StreamInfoList>StreamInfo"`
}

// GetStreamInfo requests the set of video streams this camera can serve.
func GetStreamInfo(c *session.Connection) (*StreamInfoList, error) {
	header, payload, err := roundTrip(c, MsgIDStreamInfoList, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(header); err != nil {
		return nil, err
	}
	var out StreamInfoList
	if err := xml.Unmarshal(payload, &out); err != nil {
		return nil, bcerrors.NewUnintelligibleReply("stream-info reply did not parse as StreamInfoList xml", payload)
	}
	return &out, nil
}

type preview struct {
	XMLName    xml.Name `xml:"body"`
	ChannelID  int      `xml:"Preview>channelId"`
	Handle     int      `xml:"Preview>handle"`
	StreamType string   `xml:"Preview>streamType"`
}

// VideoStream is a started video feed: the msg_num its binary media
// payloads arrive on, and the subscription delivering them.
type VideoStream struct {
	MsgNum uint32
	sub    *session.Subscription
}

// Frames returns the channel carrying the stream's raw binary media
// payloads (to be handed to the media framer, package media).
func (v *VideoStream) Frames() <-chan *bcwire.Packet { return v.sub.Recv() }

// Close tears down the subscription backing the stream.
func (v *VideoStream) Close() { v.sub.Close() }

// StartVideo asks the camera to begin streaming streamType (e.g. "main" or
// "sub") on channelID, returning the live subscription its media payloads
// arrive on.
func StartVideo(c *session.Connection, channelID int, streamType string) (*VideoStream, error) {
	msgNum := c.NextMsgNum()
	sub, err := c.Subscribe(msgNum)
	if err != nil {
		return nil, err
	}

	body := preview{ChannelID: channelID, Handle: 0, StreamType: streamType}
	payload, err := xml.Marshal(body)
	if err != nil {
		sub.Close()
		return nil, err
	}
	pkt := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: MsgIDStartVideo, MsgNum: msgNum, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{Payload: payload},
	}
	if err := c.Send(pkt); err != nil {
		sub.Close()
		return nil, err
	}

	timer := time.NewTimer(requestTimeout)
	defer timer.Stop()
	select {
	case reply := <-sub.Recv():
		if err := checkOK(reply.Header); err != nil {
			sub.Close()
			return nil, err
		}
	case <-sub.Done():
		return nil, bcerrors.NewDroppedConnection("catalog.start_video.subscription_closed")
	case <-timer.C:
		sub.Close()
		return nil, bcerrors.NewTimeout("catalog.start_video", requestTimeout, nil)
	}

	return &VideoStream{MsgNum: msgNum, sub: sub}, nil
}
