// Package fingerprint computes content fingerprints for catalogued event
// files, used for dedup and change detection.
package fingerprint

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spaolacci/murmur3"
)

// Size is the fingerprint length in bytes (128-bit murmur3).
const Size = 16

// Sum returns the hex-encoded 128-bit murmur3 fingerprint of data.
func Sum(data []byte) string {
	h1, h2 := murmur3.Sum128(data)
	var buf [Size]byte
	binary.BigEndian.PutUint64(buf[0:8], h1)
	binary.BigEndian.PutUint64(buf[8:16], h2)
	return hex.EncodeToString(buf[:])
}

// SumFile returns the fingerprint of the file at path, streaming its
// content rather than loading it whole.
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint: opening %s: %w", path, err)
	}
	defer f.Close()

	h := murmur3.New128()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fingerprint: reading %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
