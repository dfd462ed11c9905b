// Package bcwire implements the Baichuan control-channel wire format: the
// 20/24-byte packet header, the legacy/modern body split, and the
// encryption-mode state machine that governs how bodies are ciphered.
package bcwire

import (
	"encoding/binary"

	"github.com/neolink-go/neolink/internal/bcerrors"
)

// Magic is the fixed 32-bit value every BC header begins with.
const Magic uint32 = 0x0ABCDEF0

// Header classes. Only 0x6514 omits the trailing extension-offset word; the
// other three are "modern" framing and always carry it.
const (
	ClassLegacyLogin    uint16 = 0x6514 // initial (un)encrypted login, no extension offset
	ClassModernReply    uint16 = 0x6614 // reply to the encrypted 0x6514 login, carries the extension offset
	ClassModernResent   uint16 = 0x6414 // re-sent login, modern framing, always encrypted
	ClassModern         uint16 = 0x0000 // everything else
	headerLenShort      int    = 20
	headerLenWithExtOff int    = 24
)

// Header is the fixed portion of a BC packet, excluding the body. Whether
// the extension-offset word is present on the wire is a pure function of
// Class (see HasExtOffset) — it is never set independently.
type Header struct {
	MsgID           uint32
	BodyLen         uint32
	MsgNum          uint32
	ResponseCode    uint16
	Class           uint16
	ExtensionOffset uint32 // meaningful only when HasExtOffset() is true
}

// IsModern reports whether this header's body follows the modern
// (extension + payload) split rather than the legacy binary login body.
func (h *Header) IsModern() bool { return h.Class != ClassLegacyLogin }

// HasExtOffset reports whether this header's class carries the trailing
// 32-bit extension-offset word: present for every class except 0x6514.
func (h *Header) HasExtOffset() bool { return h.Class != ClassLegacyLogin }

// Len returns the number of header bytes on the wire for this header
// (20 or 24, depending on HasExtOffset).
func (h *Header) Len() int {
	if h.HasExtOffset() {
		return headerLenWithExtOff
	}
	return headerLenShort
}

// DecodeHeader parses a Header from the first 20 (or 24) bytes of buf. It
// returns bcerrors.IncompleteFrame if buf is too short to contain even the
// fixed 20-byte prefix, or if the class requires an extension-offset word
// that hasn't arrived yet.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) < headerLenShort {
		return nil, bcerrors.NewIncompleteFrame("bcwire.decode_header")
	}
	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic != Magic {
		return nil, bcerrors.NewCorruptFrame("bcwire.decode_header", nil)
	}
	h := &Header{
		MsgID:        binary.LittleEndian.Uint32(buf[4:8]),
		BodyLen:      binary.LittleEndian.Uint32(buf[8:12]),
		MsgNum:       binary.LittleEndian.Uint32(buf[12:16]),
		ResponseCode: binary.LittleEndian.Uint16(buf[16:18]),
		Class:        binary.LittleEndian.Uint16(buf[18:20]),
	}
	if h.HasExtOffset() {
		if len(buf) < headerLenWithExtOff {
			return nil, bcerrors.NewIncompleteFrame("bcwire.decode_header.ext_offset")
		}
		h.ExtensionOffset = binary.LittleEndian.Uint32(buf[20:24])
	}
	return h, nil
}

// EncodeHeader serialises h to its wire form (20 or 24 bytes).
func EncodeHeader(h *Header) []byte {
	n := h.Len()
	buf := make([]byte, n)
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.MsgID)
	binary.LittleEndian.PutUint32(buf[8:12], h.BodyLen)
	binary.LittleEndian.PutUint32(buf[12:16], h.MsgNum)
	binary.LittleEndian.PutUint16(buf[16:18], h.ResponseCode)
	binary.LittleEndian.PutUint16(buf[18:20], h.Class)
	if h.HasExtOffset() {
		binary.LittleEndian.PutUint32(buf[20:24], h.ExtensionOffset)
	}
	return buf
}
