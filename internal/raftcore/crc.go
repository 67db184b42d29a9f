package raftcore

import "hash/crc32"

// crc32Checksum computes the IEEE CRC-32 used to protect trailer bytes.
func crc32Checksum(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}
