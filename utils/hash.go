package utils

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
)

// HashBytes returns the MD5 hash of the given data.
func HashBytes(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Digest is an io.Writer that keeps a running MD5 of everything written to
// it. Pair it with io.TeeReader to hash a file while it is being read.
type Digest struct {
	h hash.Hash
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	return &Digest{h: md5.New()}
}

func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// String returns the hex encoded hash of the bytes written so far.
func (d *Digest) String() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
