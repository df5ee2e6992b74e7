package util

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pinSaltBytes  = 16
	pinKeyBytes   = 32
	pinIterations = 100000
)

// HashPin derives a storable credential from a PIN. The result is
// "<salt hex>:<key hex>" with a fresh random salt, so hashing the same PIN
// twice never yields the same string.
func HashPin(pin string) (string, error) {
	salt := make([]byte, pinSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(pin), salt, pinIterations, pinKeyBytes, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPin re-derives the key from the stored salt and compares in constant
// time. Malformed stored hashes fail closed: the caller sees an ordinary
// mismatch, never an error.
func VerifyPin(pin, storedHash string) bool {
	salt, expected, ok := parsePinHash(storedHash)
	if !ok {
		return false
	}

	key := pbkdf2.Key([]byte(pin), salt, pinIterations, pinKeyBytes, sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1
}

func parsePinHash(storedHash string) (salt, key []byte, ok bool) {
	parts := strings.SplitN(storedHash, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil || len(salt) != pinSaltBytes {
		return nil, nil, false
	}

	key, err = hex.DecodeString(parts[1])
	if err != nil || len(key) != pinKeyBytes {
		return nil, nil, false
	}

	return salt, key, true
}
