package catalog

import (
	"testing"
	"time"
)

func TestSubscribeMotionDeliversStartAndStop(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		camera.reply(t, MsgIDMotionRequest, req.Header.MsgNum, 200, nil)
		started := marshalXML(t, alarmEventList{Events: []alarmEvent{{ChannelID: 0, Status: "MD"}}})
		camera.reply(t, MsgIDMotionRequest, req.Header.MsgNum, 200, started)
		stopped := marshalXML(t, alarmEventList{Events: []alarmEvent{{ChannelID: 0, Status: "none"}}})
		camera.reply(t, MsgIDMotionRequest, req.Header.MsgNum, 200, stopped)
	}()

	sub, err := SubscribeMotion(client, 0)
	if err != nil {
		t.Fatalf("subscribe motion: %v", err)
	}
	defer sub.Close()
	<-done

	select {
	case status := <-sub.Events():
		if status != MotionStarted {
			t.Fatalf("expected MotionStarted, got %v", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("start event not delivered")
	}

	select {
	case status := <-sub.Events():
		if status != MotionStopped {
			t.Fatalf("expected MotionStopped, got %v", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stop event not delivered")
	}
}
