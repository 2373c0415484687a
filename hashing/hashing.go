// Package hashing defines the streaming digest interface the rest of gsum
// programs against, plus adapters for hashing io.Readers and files without
// pulling them into memory.
package hashing

import (
	"io"
	"os"

	"github.com/gsum/gsum/sha256"
)

// Hash is a streaming digest. Update feeds bytes, Finalize consumes the
// hash and yields the digest, Size says how long that digest is.
// sha256.Hasher is the only implementation here, adding another algorithm
// later means adding another implementation, not changing callers.
type Hash interface {
	Update(p []byte) error
	Finalize() ([]byte, error)
	Size() int
}

var _ Hash = (*sha256.Hasher)(nil)

// how much we read from the source per Update. purely an efficiency knob,
// the digest doesn't care (see chunking invariance tests)
const readChunkSize = 64 * 1024

// HashReader streams everything from r through a fresh hasher and returns
// the digest. A read error aborts immediately, there is no such thing as a
// partial digest.
func HashReader(r io.Reader) ([]byte, error) {
	h := sha256.New()
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if uerr := h.Update(buf[:n]); uerr != nil {
				return nil, uerr
			}
		}
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
	}
	return h.Finalize()
}

// HashFile opens the file, hashes its contents, and closes it no matter how
// things go. Returns the digest and how many bytes were read.
func HashFile(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	hs := NewSHA256HasherSizer()
	if _, err := io.CopyBuffer(&hs, readerOnly{f}, make([]byte, readChunkSize)); err != nil {
		return nil, 0, err
	}
	return hs.HashAndSize()
}

// readerOnly hides any WriteTo the underlying file might have, so
// io.CopyBuffer actually uses our buffer and our Write path
type readerOnly struct {
	io.Reader
}
