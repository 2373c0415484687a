package sha256

import (
	"bytes"
	stdsha256 "crypto/sha256"
	"math/rand"
	"testing"
)

// vectors from FIPS 180-4 / NIST, plus the two everyone knows by heart
var knownVectors = []struct {
	in   string
	want string
}{
	{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	{"hello world", "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	{"abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq", "248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1"},
	{"The quick brown fox jumps over the lazy dog", "d7a8fbb307d7809469ca9abcb0082e4f8d5651e46d3cdb762d02d0bf37c9e592"},
}

func TestKnownVectors(t *testing.T) {
	for _, v := range knownVectors {
		got := EncodeHex(Sum256([]byte(v.in)))
		if got != v.want {
			t.Errorf("Sum256(%q) = %s, want %s", v.in, got, v.want)
		}
	}
}

func TestMillionAs(t *testing.T) {
	h := New()
	chunk := bytes.Repeat([]byte("a"), 1000)
	for i := 0; i < 1000; i++ {
		if err := h.Update(chunk); err != nil {
			t.Fatal(err)
		}
	}
	digest, err := h.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	want := "cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0"
	if EncodeHex(digest) != want {
		t.Errorf("million a's = %s, want %s", EncodeHex(digest), want)
	}
}

// every length around the block and padding boundaries, checked against the
// standard library implementation
func TestAgainstStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(5021))
	for size := 0; size <= 3*BlockSize+5; size++ {
		data := make([]byte, size)
		rng.Read(data)
		expected := stdsha256.Sum256(data)
		got := Sum256(data)
		if !bytes.Equal(got, expected[:]) {
			t.Errorf("size %d: got %s want %s", size, EncodeHex(got), EncodeHex(expected[:]))
		}
	}
}

func TestChunkingInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	data := make([]byte, 300)
	rng.Read(data)
	want := Sum256(data)

	for _, chunkSize := range []int{1, 2, 3, 7, 63, 64, 65, 127, 128, 129, 299, 300} {
		h := New()
		for off := 0; off < len(data); off += chunkSize {
			end := off + chunkSize
			if end > len(data) {
				end = len(data)
			}
			if err := h.Update(data[off:end]); err != nil {
				t.Fatal(err)
			}
		}
		got, err := h.Finalize()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("chunk size %d gave %s, single shot gave %s", chunkSize, EncodeHex(got), EncodeHex(want))
		}
	}

	// uneven splits too, not just regular ones
	for trial := 0; trial < 50; trial++ {
		h := New()
		off := 0
		for off < len(data) {
			n := rng.Intn(90)
			if off+n > len(data) {
				n = len(data) - off
			}
			if err := h.Update(data[off : off+n]); err != nil {
				t.Fatal(err)
			}
			off += n
		}
		got, err := h.Finalize()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("random split trial %d gave wrong digest", trial)
		}
	}
}

func TestEmptyUpdatesAreHarmless(t *testing.T) {
	h := New()
	for i := 0; i < 10; i++ {
		if err := h.Update(nil); err != nil {
			t.Fatal(err)
		}
		if err := h.Update([]byte{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.Update([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	if err := h.Update(nil); err != nil {
		t.Fatal(err)
	}
	digest, err := h.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if EncodeHex(digest) != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("empty updates changed the digest: %s", EncodeHex(digest))
	}
}

func TestDigestAlwaysThirtyTwoBytes(t *testing.T) {
	for _, size := range []int{0, 1, 55, 56, 63, 64, 65, 1000} {
		digest := Sum256(make([]byte, size))
		if len(digest) != Size {
			t.Errorf("input size %d gave digest of %d bytes", size, len(digest))
		}
	}
}

func TestUseAfterFinalize(t *testing.T) {
	h := New()
	if err := h.Update([]byte("meow")); err != nil {
		t.Fatal(err)
	}
	first, err := h.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Update([]byte("more")); err != ErrFinalized {
		t.Errorf("Update after Finalize should be ErrFinalized, got %v", err)
	}
	second, err := h.Finalize()
	if err != ErrFinalized {
		t.Errorf("second Finalize should be ErrFinalized, got %v", err)
	}
	if second != nil {
		t.Errorf("second Finalize should not return a digest")
	}
	// and the rejected calls must not have corrupted anything
	if !bytes.Equal(first, Sum256([]byte("meow"))) {
		t.Errorf("digest doesn't match one-shot")
	}
}

func TestSizeReporting(t *testing.T) {
	if New().Size() != 32 {
		t.Errorf("sha256 digests are 32 bytes, period")
	}
}
