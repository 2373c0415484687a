package sha256

import "errors"

const hextable = "0123456789abcdef"

// ErrHexFormat is returned by ParseHex for anything that isn't an even-length
// string of hex digits.
var ErrHexFormat = errors.New("sha256: bad hex format")

// EncodeHex formats bytes as lowercase hex, two characters per byte, no
// separators, no prefix. This is how every digest in gsum is displayed.
func EncodeHex(p []byte) string {
	out := make([]byte, len(p)*2)
	for i, b := range p {
		out[i*2] = hextable[b>>4]
		out[i*2+1] = hextable[b&0x0f]
	}
	return string(out)
}

// ParseHex is the inverse of EncodeHex. It accepts upper or lower case,
// since people paste digests from all sorts of places.
func ParseHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, ErrHexFormat
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		a := unhex(s[2*i])
		b := unhex(s[2*i+1])
		if a == 255 || b == 255 {
			return nil, ErrHexFormat
		}
		out[i] = a<<4 | b
	}
	return out, nil
}

// unhex returns the value of the hex nibble or 255 if it's bad
func unhex(b uint8) uint8 {
	switch {
	case '0' <= b && b <= '9':
		return b - '0'
	case 'a' <= b && b <= 'f':
		return 10 + b - 'a'
	case 'A' <= b && b <= 'F':
		return 10 + b - 'A'
	}
	return 255
}
