package cache

import (
	"crypto/sha256"
	"fmt"

	"zombiezen.com/go/nix/nar"
)

// Digit set of nix base32; e, o, t and u are left out
const nixAlphabet = "0123456789abcdfghijklmnpqrsvwxyz"

// Revision hashes the NAR serialization of a package folder. The NAR format
// is independent of timestamps and directory iteration order, so identical
// package contents always yield the same revision.
func Revision(dir string) (string, error) {
	h := sha256.New()
	if err := nar.DumpPath(h, dir); err != nil {
		return "", fmt.Errorf("serializing %s: %w", dir, err)
	}
	return nixBase32(h.Sum(nil)), nil
}

// nixBase32 encodes digest the way nix prints store hashes: 5-bit groups
// read from the low end of the digest, emitted high group first.
func nixBase32(digest []byte) string {
	if len(digest) == 0 {
		return ""
	}
	n := (len(digest)*8-1)/5 + 1
	out := make([]byte, n)
	for k := 0; k < n; k++ {
		bit := k * 5
		pos, shift := bit/8, uint(bit%8)
		v := uint(digest[pos]) >> shift
		if pos+1 < len(digest) {
			v |= uint(digest[pos+1]) << (8 - shift)
		}
		out[n-1-k] = nixAlphabet[v&0x1f]
	}
	return string(out)
}
