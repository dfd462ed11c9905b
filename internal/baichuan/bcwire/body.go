package bcwire

import (
	"encoding/xml"

	"github.com/neolink-go/neolink/internal/baichuan/crypto"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// Extension is the optional XML preamble that precedes a modern message's
// main payload. Its binaryData flag is the only field the framer itself
// inspects; everything else (channelID, payloadVersion, ...) is carried
// through for the message catalog to interpret.
type Extension struct {
	XMLName    xml.Name `xml:"body"`
	ChannelID  *int     `xml:"extensionInfo>channelId,omitempty"`
	BinaryData *int     `xml:"binaryData,omitempty"`
}

// IsBinaryPayload reports whether the extension declares the following
// payload to be binary rather than XML.
func (e *Extension) IsBinaryPayload() bool {
	return e != nil && e.BinaryData != nil && *e.BinaryData == 1
}

// Body is a decoded BC message body: either the legacy pre-authentication
// login blob, or a modern (extension + payload) body.
type Body struct {
	Legacy        bool
	LegacyPayload []byte // raw bytes of the legacy login body, catalog-parsed

	ExtensionRaw []byte     // decrypted extension bytes, empty if none present
	Extension    *Extension // nil if ExtensionRaw didn't parse as XML

	Payload      []byte // decrypted payload bytes
	PayloadIsXML bool
}

// decryptRegion applies the session's current cipher to a body region,
// using msgNum as the XOR/AES offset source (the header's message-number
// field, per the protocol's crypto offset convention).
func decryptRegion(mode EncryptionMode, aesKey [16]byte, msgNum uint32, buf []byte) ([]byte, error) {
	switch mode {
	case ModeNone:
		return buf, nil
	case ModeXor:
		return crypto.XorCrypt(msgNum, buf), nil
	case ModeAES:
		return crypto.AESCFBCrypt(aesKey[:], buf, false)
	default:
		return nil, bcerrors.NewUnknownEncryption(int(mode))
	}
}

func encryptRegion(mode EncryptionMode, aesKey [16]byte, msgNum uint32, buf []byte) ([]byte, error) {
	switch mode {
	case ModeNone:
		return buf, nil
	case ModeXor:
		return crypto.XorCrypt(msgNum, buf), nil
	case ModeAES:
		return crypto.AESCFBCrypt(aesKey[:], buf, true)
	default:
		return nil, bcerrors.NewUnknownEncryption(int(mode))
	}
}

// DecodeBody decrypts and parses a message body given its already-parsed
// header and the exact body_len bytes that follow it on the wire. st
// supplies the session's current encryption mode; forcedBinary reports
// whether this msg_num was previously marked binary by the post-decode
// hook (see State.IsBinary).
func DecodeBody(h *Header, raw []byte, st *State, forcedBinary bool) (*Body, error) {
	if !h.IsModern() {
		return &Body{Legacy: true, LegacyPayload: raw}, nil
	}

	mode, aesKey := st.Mode(), st.AESKey()
	body := &Body{}

	var extRaw, payloadRaw []byte
	if h.HasExtOffset() && h.ExtensionOffset > 0 {
		if int(h.ExtensionOffset) > len(raw) {
			return nil, bcerrors.NewCorruptFrame("bcwire.decode_body.ext_offset", nil)
		}
		extRaw = raw[:h.ExtensionOffset]
		payloadRaw = raw[h.ExtensionOffset:]
	} else {
		payloadRaw = raw
	}

	if len(extRaw) > 0 {
		decExt, err := decryptRegion(mode, aesKey, h.MsgNum, extRaw)
		if err != nil {
			return nil, err
		}
		body.ExtensionRaw = decExt
		var ext Extension
		if err := xml.Unmarshal(decExt, &ext); err == nil {
			body.Extension = &ext
		}
	}

	decPayload, err := decryptRegion(mode, aesKey, h.MsgNum, payloadRaw)
	if err != nil {
		return nil, err
	}
	body.Payload = decPayload

	switch {
	case forcedBinary || body.Extension.IsBinaryPayload():
		body.PayloadIsXML = false
	default:
		// Attempt XML parse; a parse failure means this was actually binary
		// (e.g. a stream's first video chunk hasn't been marked yet).
		var probe interface{}
		body.PayloadIsXML = xml.Unmarshal(decPayload, &probe) == nil
	}

	return body, nil
}

// EncodeBody encrypts and serialises body under the header's msg_num and
// the session's current mode, returning the raw bytes to place after the
// header (and, for modern bodies, updating h.BodyLen/h.ExtensionOffset in
// place so EncodeHeader reflects the final sizes).
func EncodeBody(h *Header, body *Body, st *State) ([]byte, error) {
	if body.Legacy {
		h.BodyLen = uint32(len(body.LegacyPayload))
		return body.LegacyPayload, nil
	}

	mode, aesKey := st.Mode(), st.AESKey()

	var extEnc []byte
	if len(body.ExtensionRaw) > 0 {
		enc, err := encryptRegion(mode, aesKey, h.MsgNum, body.ExtensionRaw)
		if err != nil {
			return nil, err
		}
		extEnc = enc
	}
	payloadEnc, err := encryptRegion(mode, aesKey, h.MsgNum, body.Payload)
	if err != nil {
		return nil, err
	}

	if h.HasExtOffset() {
		h.ExtensionOffset = uint32(len(extEnc))
	}
	h.BodyLen = uint32(len(extEnc) + len(payloadEnc))

	out := make([]byte, 0, len(extEnc)+len(payloadEnc))
	out = append(out, extEnc...)
	out = append(out, payloadEnc...)
	return out, nil
}
