// Package cryptox computes content digests for stored photo assets.
package cryptox

import (
	"encoding/hex"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Checksum returns the hex-encoded BLAKE2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ChecksumReader streams r through BLAKE2b-256 and returns the hex digest.
func ChecksumReader(r io.Reader) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether data matches the expected hex digest.
func Verify(data []byte, expected string) bool {
	return expected != "" && Checksum(data) == expected
}
