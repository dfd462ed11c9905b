package catalog

import (
	"testing"
	"time"
)

func TestRegisterFloodlightStatusMonitorDeliversPush(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)
	ch := RegisterFloodlightStatusMonitor(client, 4)

	list := FloodlightStatusList{Status: []FloodlightStatus{{ChannelID: 0, Status: 1}}}
	payload := marshalXML(t, list)
	go func() {
		camera.reply(t, MsgIDFloodlightStatusList, 9, 200, payload)
	}()

	select {
	case got := <-ch:
		if len(got.Status) != 1 || got.Status[0].Status != 1 {
			t.Fatalf("unexpected floodlight push: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("floodlight push not delivered")
	}
}

func TestSetFloodlightManualSucceeds(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		camera.reply(t, MsgIDFloodlightManual, req.Header.MsgNum, 200, nil)
	}()

	if err := SetFloodlightManual(client, 0, true, 30); err != nil {
		t.Fatalf("set floodlight manual: %v", err)
	}
	<-done
}

func TestSetFloodlightManualToleratesSilence(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		camera.readRequest(t)
		// Deliberately send no reply, matching cameras that accept the
		// command without acknowledging it.
	}()

	if err := SetFloodlightManual(client, 0, false, 0); err != nil {
		t.Fatalf("expected lenient-ack success on silence, got: %v", err)
	}
	<-done
}
