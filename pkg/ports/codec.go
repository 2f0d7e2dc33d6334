package ports

// Codec encrypts and decrypts the opaque session payload.
type Codec interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// KeyGenerator produces fresh, high-entropy session keys.
type KeyGenerator interface {
	NewKey() (string, error)
}
