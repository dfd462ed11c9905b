package bcwire

import (
	"sync"
	"sync/atomic"

	"github.com/neolink-go/neolink/internal/bcerrors"
)

// EncryptionMode is the per-session cipher selection for modern-message
// bodies. It starts at ModeXor (used for the first login exchange) and is
// updated exactly once, by the post-decode hook on the login reply.
type EncryptionMode uint8

const (
	ModeXor EncryptionMode = iota
	ModeNone
	ModeAES
)

func (m EncryptionMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeAES:
		return "aes"
	default:
		return "xor"
	}
}

// modeSnapshot is the value stored in State.mode; it pairs the mode with its
// AES key (all zero unless mode == ModeAES) so both can be swapped atomically.
type modeSnapshot struct {
	mode EncryptionMode
	key  [16]byte
}

// State holds the mutable per-connection decode state: the current
// encryption mode (read by the write path via an atomic snapshot, written
// only by the read loop) and the set of message-numbers forced into binary
// payload interpretation.
type State struct {
	mode   atomic.Pointer[modeSnapshot]
	binMu  sync.Mutex
	binary map[uint32]struct{}
}

// NewState returns a State initialised to XOR mode, matching the mode used
// for the first (pre-authentication) login exchange.
func NewState() *State {
	s := &State{binary: make(map[uint32]struct{})}
	s.mode.Store(&modeSnapshot{mode: ModeXor})
	return s
}

// Mode returns the current encryption mode.
func (s *State) Mode() EncryptionMode { return s.mode.Load().mode }

// AESKey returns the current AES key; only meaningful when Mode() == ModeAES.
func (s *State) AESKey() [16]byte { return s.mode.Load().key }

// SetMode atomically replaces the encryption mode and (for ModeAES) the key.
func (s *State) SetMode(mode EncryptionMode, key [16]byte) {
	s.mode.Store(&modeSnapshot{mode: mode, key: key})
}

// ApplyEncryptionByte updates the mode from the login reply's response-code
// low byte, per the 0xDD-prefixed response-code convention. aesKey is used
// only when the byte selects AES.
func (s *State) ApplyEncryptionByte(b byte, aesKey [16]byte) error {
	switch b {
	case 0x00:
		s.SetMode(ModeNone, [16]byte{})
	case 0x01:
		s.SetMode(ModeXor, [16]byte{})
	case 0x02:
		s.SetMode(ModeAES, aesKey)
	default:
		return bcerrors.NewUnknownEncryption(int(b))
	}
	return nil
}

// MarkBinary forces subsequent payloads for msgNum to be treated as binary
// regardless of the extension's declared content type. Used for video/audio
// /talk streams once the extension has flagged binary_data == 1 once.
func (s *State) MarkBinary(msgNum uint32) {
	s.binMu.Lock()
	s.binary[msgNum] = struct{}{}
	s.binMu.Unlock()
}

// IsBinary reports whether msgNum has been marked binary.
func (s *State) IsBinary(msgNum uint32) bool {
	s.binMu.Lock()
	_, ok := s.binary[msgNum]
	s.binMu.Unlock()
	return ok
}
