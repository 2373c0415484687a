// Package sha256 implements the SHA-256 message digest from scratch, as
// defined in FIPS 180-4. It exists so the rest of gsum doesn't have to trust
// an opaque implementation: every bit of the padding, message schedule and
// compression rounds is right here and auditable.
//
// The streaming state machine is deliberately strict: a Hasher is created,
// fed any number of Update calls, and consumed by exactly one Finalize.
// Touching it after Finalize is an error, never a silently wrong digest.
package sha256

import "errors"

// Size is the number of bytes in a SHA-256 digest.
const Size = 32

// BlockSize is the number of bytes the compression function consumes at once.
const BlockSize = 64

// ErrFinalized is returned by Update and Finalize on a hasher that has
// already been finalized.
var ErrFinalized = errors.New("sha256: hasher already finalized")

// the initial hash state, the first 32 bits of the fractional parts of the
// square roots of the first 8 primes (FIPS 180-4 §5.3.3)
const (
	init0 = 0x6a09e667
	init1 = 0xbb67ae85
	init2 = 0x3c6ef372
	init3 = 0xa54ff53a
	init4 = 0x510e527f
	init5 = 0x9b05688c
	init6 = 0x1f83d9ab
	init7 = 0x5be0cd19
)

// Hasher is the streaming state of one in-progress digest. It is NOT safe
// for concurrent use: one hasher belongs to one computation. Hashing several
// things at once means several hashers (see scan, which does exactly that).
type Hasher struct {
	h   [8]uint32       // the chained hash state, one word per initial constant
	x   [BlockSize]byte // buffered tail that doesn't yet fill a block. fixed size on purpose, 64 bytes is a hard upper bound so there is zero reason to allocate on the Update path
	nx  int             // how many bytes of x are valid, always < BlockSize between calls
	len uint64          // total bytes ever fed, regardless of buffering. the padding needs this in bits
	fin bool            // set by Finalize, after which the hasher is dead
}

// New returns a fresh hasher in the canonical initial state.
func New() *Hasher {
	h := &Hasher{}
	h.h[0] = init0
	h.h[1] = init1
	h.h[2] = init2
	h.h[3] = init3
	h.h[4] = init4
	h.h[5] = init5
	h.h[6] = init6
	h.h[7] = init7
	return h
}

// Update feeds p into the digest. Any length is fine, including zero, and
// the chunking makes no difference to the result: the same bytes in the same
// order give the same digest no matter how they were split across calls.
func (h *Hasher) Update(p []byte) error {
	if h.fin {
		return ErrFinalized
	}
	h.len += uint64(len(p))
	h.write(p)
	return nil
}

// write is the buffering core shared by Update and the padding step. It does
// not touch len or fin, that's the callers' business.
func (h *Hasher) write(p []byte) {
	if h.nx > 0 {
		n := copy(h.x[h.nx:], p)
		h.nx += n
		if h.nx == BlockSize {
			block(h, h.x[:])
			h.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		block(h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		h.nx = copy(h.x[:], p)
	}
}

// Finalize pads the message, runs the final block(s) and returns the 32 byte
// digest. It consumes the hasher: any later Update or Finalize returns
// ErrFinalized.
func (h *Hasher) Finalize() ([]byte, error) {
	if h.fin {
		return nil, ErrFinalized
	}
	h.fin = true

	// padding: a 1 bit, zeros until 56 mod 64, then the bit length big
	// endian. that's one extra block normally, two if the tail is 56..63
	// bytes long
	var tmp [BlockSize + 8]byte
	tmp[0] = 0x80
	var pad int
	if rem := int(h.len % BlockSize); rem < 56 {
		pad = 56 - rem
	} else {
		pad = 64 + 56 - rem
	}
	bits := h.len << 3 // length is encoded in BITS, this has bitten people before
	for i := 0; i < 8; i++ {
		tmp[pad+i] = byte(bits >> (56 - 8*i))
	}
	h.write(tmp[:pad+8])
	if h.nx != 0 {
		// the padding arithmetic guarantees we land exactly on a block boundary
		panic("sha256: padding didn't land on a block boundary")
	}

	digest := make([]byte, Size)
	for i, s := range h.h {
		digest[i*4] = byte(s >> 24)
		digest[i*4+1] = byte(s >> 16)
		digest[i*4+2] = byte(s >> 8)
		digest[i*4+3] = byte(s)
	}
	return digest, nil
}

// Size returns the digest length in bytes. It exists so Hasher satisfies
// hashing.Hash.
func (h *Hasher) Size() int {
	return Size
}

// Sum256 is the one-shot convenience: new hasher, one Update, Finalize.
func Sum256(p []byte) []byte {
	h := New()
	if err := h.Update(p); err != nil {
		panic(err) // fresh hasher, cannot be finalized
	}
	digest, err := h.Finalize()
	if err != nil {
		panic(err)
	}
	return digest
}
