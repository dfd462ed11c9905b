package udp

import (
	"encoding/xml"
	"net"
	"testing"

	"github.com/neolink-go/neolink/internal/baichuan/crypto"
)

func newTestPacketConn(t *testing.T) (net.PacketConn, error) {
	t.Helper()
	return net.ListenPacket("udp4", "127.0.0.1:0")
}

// runFakeCamera plays the camera side of the DiscoverLocal handshake once:
// receive C2D_C, reply D2C_C_R, receive C2D_T, reply D2C_T.
func runFakeCamera(t *testing.T, conn net.PacketConn) {
	t.Helper()
	buf := make([]byte, 4096)

	n, client, err := conn.ReadFrom(buf)
	if err != nil {
		t.Errorf("fake camera: read probe: %v", err)
		return
	}
	d, _, err := DecodeDiscovery(buf[:n])
	if err != nil {
		t.Errorf("fake camera: decode probe: %v", err)
		return
	}
	var probe UdpXml
	if err := xml.Unmarshal(crypto.UDPXorCrypt(d.Tid, d.Payload), &probe); err != nil {
		t.Errorf("fake camera: unmarshal probe: %v", err)
		return
	}
	if probe.C2dC == nil {
		t.Errorf("fake camera: expected C2D_C probe, got %+v", probe)
		return
	}

	reply := UdpXml{D2cCR: &D2cCR{UID: probe.C2dC.UID, Did: 42, IP: "127.0.0.1", Port: 1}}
	replyBytes, err := xml.Marshal(reply)
	if err != nil {
		t.Errorf("fake camera: marshal reply: %v", err)
		return
	}
	replyWire := EncodeDiscovery(&Discovery{Tid: d.Tid, Payload: crypto.UDPXorCrypt(d.Tid, replyBytes)})
	if _, err := conn.WriteTo(replyWire, client); err != nil {
		t.Errorf("fake camera: send reply: %v", err)
		return
	}

	n, client, err = conn.ReadFrom(buf)
	if err != nil {
		t.Errorf("fake camera: read complete: %v", err)
		return
	}
	d2, _, err := DecodeDiscovery(buf[:n])
	if err != nil {
		t.Errorf("fake camera: decode complete: %v", err)
		return
	}
	var complete UdpXml
	if err := xml.Unmarshal(crypto.UDPXorCrypt(d2.Tid, d2.Payload), &complete); err != nil {
		t.Errorf("fake camera: unmarshal complete: %v", err)
		return
	}
	if complete.C2dT == nil {
		t.Errorf("fake camera: expected C2D_T, got %+v", complete)
		return
	}

	confirm := UdpXml{D2cT: &D2cT{UID: complete.C2dT.UID, Did: 42}}
	confirmBytes, err := xml.Marshal(confirm)
	if err != nil {
		t.Errorf("fake camera: marshal confirm: %v", err)
		return
	}
	confirmWire := EncodeDiscovery(&Discovery{Tid: d2.Tid, Payload: crypto.UDPXorCrypt(d2.Tid, confirmBytes)})
	if _, err := conn.WriteTo(confirmWire, client); err != nil {
		t.Errorf("fake camera: send confirm: %v", err)
	}
}
