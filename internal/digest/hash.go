package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// DefaultBufferSize is the read buffer used when none is configured
const DefaultBufferSize = 64 * 1024

// HashFile streams the file at path through algo and returns the lowercase
// hex digest. Memory use is bounded by bufSize regardless of file size.
func HashFile(path string, algo Algorithm, bufSize int) (string, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	sum, err := HashReader(file, algo, bufSize)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return sum, nil
}

// HashReader hashes everything read from r
func HashReader(r io.Reader, algo Algorithm, bufSize int) (string, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	hasher := algo.New()
	buf := make([]byte, bufSize)
	// hide WriterTo/ReaderFrom so the buffer size is honoured
	if _, err := io.CopyBuffer(struct{ io.Writer }{hasher}, struct{ io.Reader }{r}, buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes hashes an in-memory buffer
func HashBytes(data []byte, algo Algorithm) string {
	hasher := algo.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
