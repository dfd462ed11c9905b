// Package udp implements the Baichuan UDP transport: the discovery/ack/data
// packet codec, a reliable send/receive window on top of it, and the
// multi-method discovery race (local broadcast, remote rendezvous, relay).
package udp

import (
	"encoding/binary"

	"github.com/neolink-go/neolink/internal/baichuan/crypto"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// Packet magics.
const (
	MagicDiscovery uint32 = 0x2a87cf3a
	MagicAck       uint32 = 0x2a87cf20
	MagicData      uint32 = 0x2a87cf10
)

// DefaultMTU is the negotiated default payload size of a data chunk.
const DefaultMTU = 1030

// Discovery is the negotiation packet exchanged to establish or locate a
// connection. Payload is the encrypted discovery XML; Tid doubles as its
// encryption offset (see crypto.UDPXorCrypt). Encode/Decode's integrity
// check is a CRC-32 of Payload alone.
type Discovery struct {
	Tid     uint32
	Payload []byte // encrypted XML bytes, exactly payload_size long on the wire
}

// Ack acknowledges receipt of a Data packet up to PacketID.
type Ack struct {
	ConnectionID uint32
	PacketID     uint32
	Payload      []byte // normally empty; wire format allows a trailing payload
}

// Data carries one chunk of the reliable byte-stream.
type Data struct {
	ConnectionID uint32
	PacketID     uint32
	Payload      []byte
}

// DecodeDiscovery parses a discovery packet. buf must begin with the magic.
func DecodeDiscovery(buf []byte) (*Discovery, int, error) {
	const fixed = 20
	if len(buf) < fixed {
		return nil, 0, bcerrors.NewIncompleteFrame("udp.decode_discovery")
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != MagicDiscovery {
		return nil, 0, bcerrors.NewCorruptFrame("udp.decode_discovery.magic", nil)
	}
	payloadSize := binary.LittleEndian.Uint32(buf[4:8])
	tid := binary.LittleEndian.Uint32(buf[12:16])
	checksum := binary.LittleEndian.Uint32(buf[16:20])
	total := fixed + int(payloadSize)
	if len(buf) < total {
		return nil, 0, bcerrors.NewIncompleteFrame("udp.decode_discovery.payload")
	}
	payload := buf[fixed:total]
	if crypto.CRC32(payload) != checksum {
		return nil, 0, bcerrors.NewCorruptFrame("udp.decode_discovery.checksum", nil)
	}
	return &Discovery{Tid: tid, Payload: payload}, total, nil
}

// EncodeDiscovery serialises d, computing its checksum over d.Payload.
func EncodeDiscovery(d *Discovery) []byte {
	buf := make([]byte, 20+len(d.Payload))
	binary.LittleEndian.PutUint32(buf[0:4], MagicDiscovery)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(d.Payload)))
	binary.LittleEndian.PutUint32(buf[8:12], 1)
	binary.LittleEndian.PutUint32(buf[12:16], d.Tid)
	binary.LittleEndian.PutUint32(buf[16:20], crypto.CRC32(d.Payload))
	copy(buf[20:], d.Payload)
	return buf
}

// DecodeAck parses an ack packet.
func DecodeAck(buf []byte) (*Ack, int, error) {
	const fixed = 28
	if len(buf) < fixed {
		return nil, 0, bcerrors.NewIncompleteFrame("udp.decode_ack")
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != MagicAck {
		return nil, 0, bcerrors.NewCorruptFrame("udp.decode_ack.magic", nil)
	}
	connID := binary.LittleEndian.Uint32(buf[4:8])
	packetID := binary.LittleEndian.Uint32(buf[16:20])
	payloadLen := binary.LittleEndian.Uint32(buf[24:28])
	total := fixed + int(payloadLen)
	if len(buf) < total {
		return nil, 0, bcerrors.NewIncompleteFrame("udp.decode_ack.payload")
	}
	return &Ack{ConnectionID: connID, PacketID: packetID, Payload: buf[fixed:total]}, total, nil
}

// EncodeAck serialises a. The three always-zero u32 fields in the wire
// format (bytes 8..16 and 20..24) are preserved as zero, per the reference
// implementation's own behaviour.
func EncodeAck(a *Ack) []byte {
	buf := make([]byte, 28+len(a.Payload))
	binary.LittleEndian.PutUint32(buf[0:4], MagicAck)
	binary.LittleEndian.PutUint32(buf[4:8], a.ConnectionID)
	binary.LittleEndian.PutUint32(buf[16:20], a.PacketID)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(len(a.Payload)))
	copy(buf[28:], a.Payload)
	return buf
}

// DecodeData parses a data packet. Wire layout: magic@0:4, conn_id@4:8,
// zero@8:12, packet_id@12:16, len@16:20, payload@20:.
func DecodeData(buf []byte) (*Data, int, error) {
	const fixed = 20
	if len(buf) < fixed {
		return nil, 0, bcerrors.NewIncompleteFrame("udp.decode_data")
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != MagicData {
		return nil, 0, bcerrors.NewCorruptFrame("udp.decode_data.magic", nil)
	}
	connID := binary.LittleEndian.Uint32(buf[4:8])
	packetID := binary.LittleEndian.Uint32(buf[12:16])
	payloadLen := binary.LittleEndian.Uint32(buf[16:20])
	total := fixed + int(payloadLen)
	if len(buf) < total {
		return nil, 0, bcerrors.NewIncompleteFrame("udp.decode_data.payload")
	}
	return &Data{ConnectionID: connID, PacketID: packetID, Payload: buf[fixed:total]}, total, nil
}

// EncodeData serialises d. Bytes 8:12 are always zero, per the reference
// implementation's bcudp_data layout.
func EncodeData(d *Data) []byte {
	buf := make([]byte, 20+len(d.Payload))
	binary.LittleEndian.PutUint32(buf[0:4], MagicData)
	binary.LittleEndian.PutUint32(buf[4:8], d.ConnectionID)
	binary.LittleEndian.PutUint32(buf[12:16], d.PacketID)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(d.Payload)))
	copy(buf[20:], d.Payload)
	return buf
}

// PacketKind identifies a decoded datagram's type.
type PacketKind int

const (
	KindDiscovery PacketKind = iota
	KindAck
	KindData
)

// Decode inspects buf's leading magic and dispatches to the matching
// decoder, returning the decoded value as one of *Discovery, *Ack, *Data.
func Decode(buf []byte) (PacketKind, any, int, error) {
	if len(buf) < 4 {
		return 0, nil, 0, bcerrors.NewIncompleteFrame("udp.decode.magic")
	}
	switch binary.LittleEndian.Uint32(buf[0:4]) {
	case MagicDiscovery:
		d, n, err := DecodeDiscovery(buf)
		return KindDiscovery, d, n, err
	case MagicAck:
		a, n, err := DecodeAck(buf)
		return KindAck, a, n, err
	case MagicData:
		d, n, err := DecodeData(buf)
		return KindData, d, n, err
	default:
		return 0, nil, 0, bcerrors.NewCorruptFrame("udp.decode.magic", nil)
	}
}
