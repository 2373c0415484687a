package hashing

import (
	"sync/atomic"

	"github.com/gsum/gsum/sha256"
)

// HasherSizer is an io.Writer that feeds a streaming hash while counting how
// many bytes went through. Handy anywhere an io.Copy is already happening.
// The size is read atomically so a progress reporter on another goroutine
// can watch it, but the hash itself still belongs to one computation only.
type HasherSizer struct {
	size   int64
	hasher Hash
}

func NewSHA256HasherSizer() HasherSizer {
	return HasherSizer{0, sha256.New()}
}

func (hs *HasherSizer) Write(p []byte) (int, error) {
	n := len(p)
	atomic.AddInt64(&hs.size, int64(n))
	if err := hs.hasher.Update(p); err != nil {
		return 0, err
	}
	return n, nil
}

// HashAndSize finalizes the hash and reports it along with the byte count.
func (hs *HasherSizer) HashAndSize() ([]byte, int64, error) {
	digest, err := hs.hasher.Finalize()
	if err != nil {
		return nil, 0, err
	}
	return digest, hs.Size(), nil
}

func (hs *HasherSizer) Size() int64 {
	return atomic.LoadInt64(&hs.size)
}
