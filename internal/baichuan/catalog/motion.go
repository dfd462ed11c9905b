package catalog

import (
	"context"
	"encoding/xml"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/hooks"
	"github.com/neolink-go/neolink/internal/baichuan/session"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// MotionStatus is the interpreted state of one alarm-event push.
type MotionStatus int

const (
	// MotionUnchanged is reported for any alarm event unrelated to motion.
	MotionUnchanged MotionStatus = iota
	MotionStarted
	MotionStopped
)

type alarmEvent struct {
	ChannelID int    `xml:"channelId"`
	Status    string `xml:"status"`
}

type alarmEventList struct {
	XMLName xml.Name     `xml:"body"`
	Events  []alarmEvent `xml:"AlarmEventList>AlarmEvent"`
}

// MotionSubscription is a live feed of motion-alarm events for one channel,
// started by SubscribeMotion. The camera pushes further events on the same
// msg_num the start request used (§4.6 routing rule 1: msg_num wins), so a
// single subscription serves both the initial acknowledgement and the
// ongoing stream.
type MotionSubscription struct {
	events chan MotionStatus
	sub    *session.Subscription
	conn   *session.Connection
}

// Events returns the channel motion-status updates are delivered on.
func (m *MotionSubscription) Events() <-chan MotionStatus { return m.events }

// Close ends the subscription and stops its delivery goroutine.
func (m *MotionSubscription) Close() { m.sub.Close() }

// SubscribeMotion asks the camera to start pushing motion-alarm events for
// channelID and returns a live subscription for them.
func SubscribeMotion(c *session.Connection, channelID int) (*MotionSubscription, error) {
	msgNum := c.NextMsgNum()
	sub, err := c.Subscribe(msgNum)
	if err != nil {
		return nil, err
	}

	pkt := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: MsgIDMotionRequest, MsgNum: msgNum, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{},
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
		return nil, bcerrors.NewDroppedConnection("catalog.motion.subscription_closed")
	case <-timer.C:
		sub.Close()
		return nil, bcerrors.NewTimeout("catalog.motion.start", requestTimeout, nil)
	}

	m := &MotionSubscription{events: make(chan MotionStatus, 20), sub: sub, conn: c}
	go m.pump(channelID)
	return m, nil
}

func (m *MotionSubscription) pump(channelID int) {
	defer close(m.events)
	for {
		select {
		case pkt, ok := <-m.sub.Recv():
			if !ok {
				return
			}
			status := decodeMotionEvent(pkt, channelID)
			m.fireHook(status, channelID)
			select {
			case m.events <- status:
			default:
			}
		case <-m.sub.Done():
			return
		}
	}
}

// fireHook triggers the hook manager's motion_start/motion_stop events, if
// the connection has one attached; MotionUnchanged fires nothing.
func (m *MotionSubscription) fireHook(status MotionStatus, channelID int) {
	mgr := m.conn.Hooks()
	if mgr == nil {
		return
	}
	var eventType hooks.EventType
	switch status {
	case MotionStarted:
		eventType = hooks.EventMotionStart
	case MotionStopped:
		eventType = hooks.EventMotionStop
	default:
		return
	}
	mgr.TriggerEvent(context.Background(), *hooks.NewEvent(eventType).WithCamera(m.conn.ID()).WithChannel(channelID))
}

func decodeMotionEvent(pkt *bcwire.Packet, channelID int) MotionStatus {
	var list alarmEventList
	if err := xml.Unmarshal(pkt.Body.Payload, &list); err != nil {
		return MotionUnchanged
	}
	for _, ev := range list.Events {
		if ev.ChannelID != channelID {
			continue
		}
		switch ev.Status {
		case "MD":
			return MotionStarted
		case "none":
			return MotionStopped
		}
	}
	return MotionUnchanged
}
