package crypto

import (
	"crypto/aes"
	"crypto/cipher"
)

// aesIV is the fixed CFB initialization vector the camera firmware uses for
// every session; it is a plain ASCII string, not randomly generated, which
// is safe only because the key itself is session-unique (derived from the
// login nonce).
var aesIV = []byte("0123456789abcdef")

// AESCFBCrypt runs AES-128-CFB (the stream-cipher construction, not CBC)
// over buf using the given 16-byte key and the fixed protocol IV. CFB
// encrypt and decrypt require different cipher.Stream constructors even
// though the underlying keystream is the same, matching the asymmetry in
// crypto/cipher's API; the encrypt flag selects which to build.
func AESCFBCrypt(key []byte, buf []byte, encrypt bool) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(buf))
	var stream cipher.Stream
	if encrypt {
		stream = cipher.NewCFBEncrypter(block, aesIV)
	} else {
		stream = cipher.NewCFBDecrypter(block, aesIV)
	}
	stream.XORKeyStream(out, buf)
	return out, nil
}
