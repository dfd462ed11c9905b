// Package media implements the Baichuan media stream framer: a
// self-synchronising magic-chunk decoder for the continuous video/audio
// stream carried over a subscribed binary message-number (see
// bcwire.State.IsBinary).
package media

import (
	"encoding/binary"

	"github.com/neolink-go/neolink/internal/bcerrors"
)

// Kind identifies a decoded media chunk's type.
type Kind int

const (
	KindIFrame Kind = iota
	KindPFrame
	KindInfoV1
	KindInfoV2
	KindAAC
	KindADPCM
)

func (k Kind) String() string {
	switch k {
	case KindIFrame:
		return "iframe"
	case KindPFrame:
		return "pframe"
	case KindInfoV1:
		return "info_v1"
	case KindInfoV2:
		return "info_v2"
	case KindAAC:
		return "aac"
	case KindADPCM:
		return "adpcm"
	default:
		return "unknown"
	}
}

// magic chunk tags, exactly as they appear on the wire (4 ASCII bytes).
var (
	magicIFrame = [4]byte{'0', '0', 'd', 'c'}
	magicPFrame = [4]byte{'0', '1', 'd', 'c'}
	magicInfoV1 = [4]byte{'1', '0', '0', '1'}
	magicInfoV2 = [4]byte{'1', '0', '0', '2'}
	magicAAC    = [4]byte{'0', '5', 'w', 'b'}
	magicADPCM  = [4]byte{'0', '1', 'w', 'b'}
)

// layout describes where a magic's length field sits and how wide it is,
// plus the fixed header size (including the 4-byte magic) that precedes
// the payload.
type layout struct {
	kind       Kind
	headerSize int
	lenOffset  int
	lenWidth   int // 2 or 4 bytes
}

var layouts = map[[4]byte]layout{
	magicIFrame: {KindIFrame, 32, 8, 4},
	magicPFrame: {KindPFrame, 24, 8, 4},
	magicInfoV1: {KindInfoV1, 32, 4, 4},
	magicInfoV2: {KindInfoV2, 32, 4, 4},
	magicAAC:    {KindAAC, 8, 4, 2},
	magicADPCM:  {KindADPCM, 16, 4, 2},
}

// Frame is one decoded media chunk. Header holds the raw bytes between the
// magic and the payload (timestamps and codec-specific metadata, left for
// the catalog/recorder layer to interpret); Payload is the frame's encoded
// video/audio data.
type Frame struct {
	Kind    Kind
	Header  []byte
	Payload []byte
}

// Decode parses one media chunk from the start of buf. It returns
// bcerrors.IncompleteFrame if buf doesn't yet hold a full chunk (the magic
// itself may not even be complete), or bcerrors.CorruptFrame if the first
// four bytes don't match any known magic.
func Decode(buf []byte) (*Frame, int, error) {
	if len(buf) < 4 {
		return nil, 0, bcerrors.NewIncompleteFrame("media.decode.magic")
	}
	var magic [4]byte
	copy(magic[:], buf[:4])
	lay, ok := layouts[magic]
	if !ok {
		return nil, 0, bcerrors.NewCorruptFrame("media.decode.magic", nil)
	}
	if len(buf) < lay.headerSize {
		return nil, 0, bcerrors.NewIncompleteFrame("media.decode.header")
	}
	var length int
	switch lay.lenWidth {
	case 2:
		length = int(binary.LittleEndian.Uint16(buf[lay.lenOffset : lay.lenOffset+2]))
	case 4:
		length = int(binary.LittleEndian.Uint32(buf[lay.lenOffset : lay.lenOffset+4]))
	}
	total := lay.headerSize + length
	if len(buf) < total {
		return nil, 0, bcerrors.NewIncompleteFrame("media.decode.payload")
	}
	frame := &Frame{
		Kind:    lay.kind,
		Header:  buf[4:lay.headerSize],
		Payload: buf[lay.headerSize:total],
	}
	return frame, total, nil
}
