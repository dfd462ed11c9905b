// Package crypto implements the Baichuan protocol's key derivation and the
// three encryption schemes used across the control channel and the UDP
// discovery/relay channel: the BC XOR cipher, the separate UDP-XML XOR
// cipher, and AES-128-CFB.
package crypto

// bcXORKey is the eight-byte keystream cycled by the BC control channel's
// XorEncrypt mode. It is unrelated to the UDP discovery channel's cipher.
var bcXORKey = [8]byte{0x1F, 0x2D, 0x3C, 0x4B, 0x5A, 0x69, 0x78, 0xFF}

// XorCrypt applies the BC control-channel XOR cipher, returning a new slice
// the same length as buf (buf itself is not modified). offset is the BC
// header's message-number (msg_num): it selects the starting keystream byte
// and is XORed into every byte. Encryption and decryption are the same
// operation.
func XorCrypt(offset uint32, buf []byte) []byte {
	out := make([]byte, len(buf))
	start := int(offset % 8)
	for i, b := range buf {
		k := bcXORKey[(start+i)%8]
		out[i] = b ^ k ^ byte(offset)
	}
	return out
}

// udpXORKey is the UDP discovery/relay channel's distinct 32-bit-word
// keystream. It is never used for BC control-channel bodies.
var udpXORKey = [8]uint32{
	0x1f2d3c4b, 0x5a6c7f8d, 0x38172e4b, 0x8271635a,
	0x863f1a2b, 0xa5c6f7d8, 0x8371e1b4, 0x17f2d3a5,
}

// UDPXorCrypt applies the UDP discovery/relay XML cipher. Each 32-bit key
// word is added (wrapping) to offset, then expanded little-endian into a
// four-byte keystream segment; the eight expanded segments are cycled over
// buf. Encryption and decryption are the same operation.
func UDPXorCrypt(offset uint32, buf []byte) []byte {
	out := make([]byte, len(buf))
	var stream [32]byte
	for w, k := range udpXORKey {
		v := k + offset
		stream[w*4+0] = byte(v)
		stream[w*4+1] = byte(v >> 8)
		stream[w*4+2] = byte(v >> 16)
		stream[w*4+3] = byte(v >> 24)
	}
	for i, b := range buf {
		out[i] = b ^ stream[i%32]
	}
	return out
}
