package crypto

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// DeriveAESKey reproduces the camera firmware's key schedule: hash
// "<nonce>-<password>" with MD5, hex-encode uppercase with a trailing NUL,
// then take the first 16 bytes. The NUL byte is part of the hashed-then-cut
// string (not the hash input) and only matters because it is included
// before truncation, not because it changes which 16 bytes land in range.
func DeriveAESKey(nonce, password string) [16]byte {
	sum := md5.Sum([]byte(nonce + "-" + password))
	hexStr := strings.ToUpper(fmt.Sprintf("%x", sum)) + "\x00"
	var key [16]byte
	copy(key[:], hexStr[:16])
	return key
}

// MD5Hex hashes s with MD5 and returns its uppercase hex digest, the form the
// second login step uses for both userName and password
// (MD5hex(value+nonce)).
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(fmt.Sprintf("%x", sum))
}
