package session

import (
	"encoding/xml"
	"net"
	"testing"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
)

// fakeCameraLogin plays the camera side of the two-step login exchange
// (§4.7) once over conn: read the unauthenticated probe, reply with an
// Encryption challenge selecting modeByte, then read the credentialed
// re-send and reply with responseCode.
func fakeCameraLogin(t *testing.T, conn net.Conn, nonce string, modeByte byte, responseCode uint16) {
	t.Helper()
	st := bcwire.NewState()
	reader := bcwire.NewReader(conn, st, [16]byte{})
	writer := bcwire.NewWriter(conn, st)

	probe, err := reader.ReadPacket()
	if err != nil {
		t.Errorf("fake camera: read probe: %v", err)
		return
	}

	challenge := loginBody{Encryption: &encryption{Version: "1.1", Type: "md5", Nonce: nonce}}
	payload, err := xml.Marshal(challenge)
	if err != nil {
		t.Errorf("fake camera: marshal challenge: %v", err)
		return
	}
	reply := &bcwire.Packet{
		Header: &bcwire.Header{
			MsgID:        loginMsgID,
			MsgNum:       probe.Header.MsgNum,
			ResponseCode: 0xDD00 | uint16(modeByte),
			Class:        bcwire.ClassModernReply,
		},
		Body: &bcwire.Body{Payload: payload},
	}
	if err := writer.WritePacket(reply); err != nil {
		t.Errorf("fake camera: write challenge reply: %v", err)
		return
	}

	// The post-decode hook only fires on the reader that decoded the login
	// reply (the client's). The fake camera must apply the same mode switch
	// to its own encode state to stay in step for the second exchange.
	switch modeByte {
	case 0x00:
		st.SetMode(bcwire.ModeNone, [16]byte{})
	case 0x01:
		st.SetMode(bcwire.ModeXor, [16]byte{})
	}

	cred, err := reader.ReadPacket()
	if err != nil {
		t.Errorf("fake camera: read credentialed login: %v", err)
		return
	}
	var got loginBody
	if err := xml.Unmarshal(cred.Body.Payload, &got); err != nil {
		t.Errorf("fake camera: unmarshal credentialed login: %v", err)
		return
	}

	confirm := &bcwire.Packet{
		Header: &bcwire.Header{
			MsgID:        loginMsgID,
			MsgNum:       cred.Header.MsgNum,
			ResponseCode: responseCode,
			Class:        bcwire.ClassModernReply,
		},
		Body: &bcwire.Body{Payload: []byte(`<body></body>`)},
	}
	if err := writer.WritePacket(confirm); err != nil {
		t.Errorf("fake camera: write confirm: %v", err)
	}
}

func TestLoginSucceedsUnderNoneMode(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()

	client := NewConnection("client", a, discardLogger())
	client.Start()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fakeCameraLogin(t, b, "0123456789ABCDEF", 0x00, 200)
	}()

	if err := Login(client, "admin", "swordfish", MaxEncryptionNone); err != nil {
		t.Fatalf("login: %v", err)
	}
	<-done
}

func TestLoginFailsOnNon200Response(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()

	client := NewConnection("client", a, discardLogger())
	client.Start()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fakeCameraLogin(t, b, "0123456789ABCDEF", 0x00, 400)
	}()

	err := Login(client, "admin", "wrong-password", MaxEncryptionNone)
	if err == nil {
		t.Fatalf("expected login to fail on non-200 response")
	}
	<-done
}

func TestLoginFailsWhenModeExceedsMaxEncryption(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()

	client := NewConnection("client", a, discardLogger())
	client.Start()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Only the probe/challenge step is expected here: Login bails out
		// as soon as it sees the AES selection, so no credentialed re-send
		// ever arrives.
		st := bcwire.NewState()
		reader := bcwire.NewReader(b, st, [16]byte{})
		writer := bcwire.NewWriter(b, st)
		probe, err := reader.ReadPacket()
		if err != nil {
			t.Errorf("fake camera: read probe: %v", err)
			return
		}
		challenge := loginBody{Encryption: &encryption{Version: "1.1", Type: "md5", Nonce: "0123456789ABCDEF"}}
		payload, err := xml.Marshal(challenge)
		if err != nil {
			t.Errorf("fake camera: marshal challenge: %v", err)
			return
		}
		reply := &bcwire.Packet{
			Header: &bcwire.Header{
				MsgID:        loginMsgID,
				MsgNum:       probe.Header.MsgNum,
				ResponseCode: 0xDD02, // select AES
				Class:        bcwire.ClassModernReply,
			},
			Body: &bcwire.Body{Payload: payload},
		}
		if err := writer.WritePacket(reply); err != nil {
			t.Errorf("fake camera: write challenge reply: %v", err)
		}
	}()

	err := Login(client, "admin", "swordfish", MaxEncryptionNone)
	if err == nil {
		t.Fatalf("expected login to fail when camera selects a stronger mode than permitted")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("fake camera goroutine did not complete")
	}
}

func TestLoginTimesOutWithoutReply(t *testing.T) {
	t.Skip("exercises the 15s subscription-receive timeout; skipped to keep the suite fast")
}
