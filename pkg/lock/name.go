package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/crc32"
	"hash/crc64"
)

const (
	namePrefix = "session_lock_"
	// nameHexLen keeps the name within MySQL's 64 character GET_LOCK limit.
	nameHexLen = 51
)

// Name derives the backend lock name for a session key.
// Identical keys yield identical names in every process.
func Name(key string) string {
	sum := sha256.Sum256([]byte(key))
	return namePrefix + hex.EncodeToString(sum[:])[:nameHexLen]
}

// KeyWidth is the size of the integer key handed to advisory-lock backends.
type KeyWidth int

const (
	// Width32 is a CRC32 (IEEE) of the lock name. With n locks held at once, a
	// new key collides with one of them with probability about n/2^32, so two
	// unrelated sessions can be reported as mutually exclusive under load.
	Width32 KeyWidth = 32
	// Width64 is a CRC64 (ECMA) of the lock name, for deployments where all
	// processes have been switched over together.
	Width64 KeyWidth = 64
)

var crc64Table = crc64.MakeTable(crc64.ECMA)

// AdvisoryKey reduces a lock name to the integer key of an advisory lock.
func AdvisoryKey(name string, width KeyWidth) int64 {
	if width == Width64 {
		return int64(crc64.Checksum([]byte(name), crc64Table))
	}
	return int64(crc32.ChecksumIEEE([]byte(name)))
}
