package domain

import "time"

// Record is one row of the session table.
// Data is opaque ciphertext produced by the payload codec.
type Record struct {
	Key       string
	Data      []byte
	CreatedAt time.Time
}
