package catalog

import (
	"testing"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
)

func TestPingSucceeds(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		camera.reply(t, MsgIDPing, req.Header.MsgNum, 200, nil)
	}()

	if err := Ping(client); err != nil {
		t.Fatalf("ping: %v", err)
	}
	<-done
}

func TestRebootFailsOnNon200(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		camera.reply(t, MsgIDReboot, req.Header.MsgNum, 500, nil)
	}()

	if err := Reboot(client); err == nil {
		t.Fatalf("expected reboot to fail on non-200 response")
	}
	<-done
}

func TestGetLEDState(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		reply := marshalXML(t, LEDState{Version: "1", State: "auto", LightState: "open"})
		camera.reply(t, MsgIDGetLEDStatus, req.Header.MsgNum, 200, reply)
	}()

	state, err := GetLEDState(client, 0)
	if err != nil {
		t.Fatalf("get led state: %v", err)
	}
	if state.State != "auto" || state.LightState != "open" {
		t.Fatalf("unexpected led state: %+v", state)
	}
	<-done
}

func TestGetPIRStateRetriesOn400(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// First attempt: camera answers 400, retryable.
		req := camera.readRequest(t)
		camera.reply(t, MsgIDGetPIRAlarm, req.Header.MsgNum, 400, nil)
		// Second attempt (after the 500ms retry interval): succeeds.
		req = camera.readRequest(t)
		reply := marshalXML(t, RFAlarmCfg{Version: "1", Enable: 1})
		camera.reply(t, MsgIDGetPIRAlarm, req.Header.MsgNum, 200, reply)
	}()

	cfg, err := GetPIRState(client, 0)
	if err != nil {
		t.Fatalf("get pir state: %v", err)
	}
	if cfg.Enable != 1 {
		t.Fatalf("unexpected pir state: %+v", cfg)
	}
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("camera goroutine did not complete")
	}
}

func TestGetPIRStateExhaustsRetries(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i <= pirRetries; i++ {
			req := camera.readRequest(t)
			camera.reply(t, MsgIDGetPIRAlarm, req.Header.MsgNum, 400, nil)
		}
	}()

	if _, err := GetPIRState(client, 0); err == nil {
		t.Fatalf("expected pir state to fail after exhausting retries")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("camera goroutine did not complete")
	}
}

func TestRegisterKeepAliveReplies(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)
	RegisterKeepAlive(client)

	msgNum := uint32(77)
	ping := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: MsgIDUDPKeepAlive, MsgNum: msgNum, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{},
	}
	go func() {
		camera.writer.WritePacket(ping)
	}()

	reply := camera.readRequest(t)
	if reply.Header.ResponseCode != 200 || reply.Header.MsgNum != msgNum {
		t.Fatalf("expected 200 keep-alive ack for msg_num %d, got code=%d num=%d",
			msgNum, reply.Header.ResponseCode, reply.Header.MsgNum)
	}
}
