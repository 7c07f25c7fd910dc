package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool is a package-level pool of reusable HMAC-SHA256 hash instances.
// Must be initialized via InitHasherPool before use.
var hasherPool sync.Pool

// InitHasherPool initializes a sync.Pool of HMAC-SHA256 hashers keyed with
// hashKey. Request bodies on both sides of the document API are signed with
// hashers taken from this pool.
func InitHasherPool(hashKey string) {
	hasherPool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, []byte(hashKey))
		},
	}
}

// Hash computes an HMAC-SHA256 signature over data using a pooled hasher.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashHex is Hash encoded as lowercase hex, the format of the HashSHA256
// header.
func HashHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}

// HashString computes a one-off HMAC-SHA256 of data with hashKey and returns
// it hex-encoded. It does not touch the pool.
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}
