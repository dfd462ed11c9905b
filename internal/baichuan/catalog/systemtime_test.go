package catalog

import (
	"testing"
	"time"
)

func TestGetTimeParsesReply(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		reply := marshalXML(t, systemGeneral{
			Version: "1.1", TimeZone: intPtr(0),
			Year: intPtr(2025), Month: intPtr(6), Day: intPtr(1),
			Hour: intPtr(12), Minute: intPtr(0), Second: intPtr(0),
		})
		camera.reply(t, MsgIDGetGeneral, req.Header.MsgNum, 200, reply)
	}()

	got, err := GetTime(client)
	if err != nil {
		t.Fatalf("get time: %v", err)
	}
	<-done
	if got == nil {
		t.Fatalf("expected a parsed time, got nil")
	}
	if got.Year() != 2025 || got.Month() != time.June {
		t.Fatalf("unexpected time: %v", got)
	}
}

func TestGetTimeUnsetReturnsNil(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		reply := marshalXML(t, systemGeneral{
			Version: "1.1", TimeZone: intPtr(0),
			Year: intPtr(2000), Month: intPtr(1), Day: intPtr(1),
			Hour: intPtr(0), Minute: intPtr(0), Second: intPtr(0),
		})
		camera.reply(t, MsgIDGetGeneral, req.Header.MsgNum, 200, reply)
	}()

	got, err := GetTime(client)
	if err != nil {
		t.Fatalf("get time: %v", err)
	}
	<-done
	if got != nil {
		t.Fatalf("expected nil for pre-epoch date, got %v", got)
	}
}

func TestSetTime(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	var got systemGeneral
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		if err := unmarshalForTest(req.Body.Payload, &got); err != nil {
			t.Errorf("unmarshal set-general request: %v", err)
		}
		camera.reply(t, MsgIDSetGeneral, req.Header.MsgNum, 200, nil)
	}()

	loc := time.FixedZone("", -3600)
	ts := time.Date(2026, time.March, 5, 9, 30, 0, 0, loc)
	if err := SetTime(client, ts); err != nil {
		t.Fatalf("set time: %v", err)
	}
	<-done

	if got.TimeZone == nil || *got.TimeZone != 3600 {
		t.Fatalf("expected inverted-sign timezone 3600, got %v", got.TimeZone)
	}
	if got.Year == nil || *got.Year != 2026 {
		t.Fatalf("unexpected year: %v", got.Year)
	}
}
