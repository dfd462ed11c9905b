package catalog

import "testing"

func TestRegisterPushInfoMapsPhoneType(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	done := make(chan struct{})
	var got pushInfo
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		if err := unmarshalForTest(req.Body.Payload, &got); err != nil {
			t.Errorf("unmarshal push info: %v", err)
		}
		camera.reply(t, MsgIDPushInfo, req.Header.MsgNum, 200, nil)
	}()

	if err := RegisterPushInfo(client, "abc123", "client-1", PhoneAndroid); err != nil {
		t.Fatalf("register push info: %v", err)
	}
	<-done

	if got.PhoneType != "reo_fcm" {
		t.Fatalf("expected android token %q, got %q", "reo_fcm", got.PhoneType)
	}
	if got.Token != "abc123" || got.ClientID != "client-1" {
		t.Fatalf("unexpected push info body: %+v", got)
	}
}
