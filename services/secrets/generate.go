package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// Generate returns 256 random bits encoded in base64.
func Generate() (string, error) {
	const secretSize = 32
	var buf [secretSize]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return "", fmt.Errorf("error reading bytes from crypto/rand: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf[:]), nil
}
