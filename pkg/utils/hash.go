package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// PhoneRef returns a short, stable reference to a phone number for log lines,
// so the number itself never reaches the logs. Empty input yields "".
func PhoneRef(phone string) string {
	if phone == "" {
		return ""
	}
	return HashString(phone)[:12]
}
