// Package crypto holds the salted digest demo and random byte generation.
package crypto

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/gsum/gsum/sha256"
)

// ErrSizeMismatch is returned when the caller's output buffer isn't exactly
// digest sized. We never truncate and never zero-pad, a 32 byte digest goes
// into a 32 byte buffer or nowhere.
var ErrSizeMismatch = errors.New("crypto: output buffer must be exactly 32 bytes")

// the delimiter between password and salt. a single '$', like crypt(3)
// output vaguely resembles
const saltDelimiter = "$"

// SaltedPasswordDigest writes sha256(password ++ "$" ++ salt) into out.
//
// This is a DEMONSTRATION of feeding multiple pieces through one streaming
// hasher, not a password storage scheme. There is no iteration count, no
// memory hardness, nothing. Do not store passwords with this, use a real KDF.
func SaltedPasswordDigest(password string, salt string, out []byte) error {
	if len(out) != sha256.Size {
		return ErrSizeMismatch
	}
	h := sha256.New()
	if err := h.Update([]byte(password)); err != nil {
		return err
	}
	if err := h.Update([]byte(saltDelimiter)); err != nil {
		return err
	}
	if err := h.Update([]byte(salt)); err != nil {
		return err
	}
	digest, err := h.Finalize()
	if err != nil {
		return err
	}
	copy(out, digest)
	return nil
}

// RandBytes returns cryptographically secure random bytes, e.g. a fresh salt.
func RandBytes(length int) []byte {
	result := make([]byte, length)
	_, err := io.ReadFull(rand.Reader, result)
	if err != nil {
		panic(err)
	}
	return result
}
