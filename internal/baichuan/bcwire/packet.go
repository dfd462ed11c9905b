package bcwire

import "github.com/neolink-go/neolink/internal/bcerrors"

// Packet is a fully decoded BC message: header plus body.
type Packet struct {
	Header *Header
	Body   *Body
}

const loginMsgID = 1

// Decode attempts to parse exactly one Packet from the front of buf. If buf
// does not yet contain a complete frame it returns (nil, 0, err) with err
// matching *bcerrors.IncompleteFrame via errors.As (IsProtocolError also
// reports true for it) — callers should leave buf untouched and wait for
// more bytes. On success it returns the packet and the number of bytes
// consumed from buf.
//
// Decode also runs the post-decode hook: on a login reply (msg_id == 1,
// response_code>>8 == 0xDD) it updates st's encryption mode, and when the
// extension declares binary_data == 1 it marks the message-number binary
// for subsequent payloads.
func Decode(buf []byte, st *State, aesKey [16]byte) (*Packet, int, error) {
	h, err := DecodeHeader(buf)
	if err != nil {
		return nil, 0, err
	}
	total := h.Len() + int(h.BodyLen)
	if len(buf) < total {
		return nil, 0, bcerrors.NewIncompleteFrame("bcwire.decode.body")
	}
	raw := buf[h.Len():total]

	forced := st.IsBinary(h.MsgNum)
	body, err := DecodeBody(h, raw, st, forced)
	if err != nil {
		return nil, 0, err
	}

	if h.MsgID == loginMsgID && (h.ResponseCode>>8) == 0xDD {
		if err := st.ApplyEncryptionByte(byte(h.ResponseCode&0xFF), aesKey); err != nil {
			return nil, 0, err
		}
	}
	if body.Extension.IsBinaryPayload() {
		st.MarkBinary(h.MsgNum)
	}

	return &Packet{Header: h, Body: body}, total, nil
}

// Encode serialises p under the session's current mode, filling in
// h.BodyLen (and h.ExtensionOffset for modern bodies) before emitting the
// header.
func Encode(p *Packet, st *State) ([]byte, error) {
	bodyBytes, err := EncodeBody(p.Header, p.Body, st)
	if err != nil {
		return nil, err
	}
	header := EncodeHeader(p.Header)
	out := make([]byte, 0, len(header)+len(bodyBytes))
	out = append(out, header...)
	out = append(out, bodyBytes...)
	return out, nil
}
