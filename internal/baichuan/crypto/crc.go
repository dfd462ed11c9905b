package crypto

import "hash/crc32"

// CRC32 computes the UDP channel's checksum. The upstream implementation
// seeds the hasher with an initial value of 0xffffffff and XORs the final
// digest by 0xffffffff, which is exactly the CRC-32/IEEE variant Go's
// standard library implements, so no custom table or init/final XOR
// handling is needed here.
func CRC32(payload []byte) uint32 {
	return crc32.ChecksumIEEE(payload)
}
