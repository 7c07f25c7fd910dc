// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2idHasher is the private implementation of [PasswordHasher].
//
// Hashes are encoded in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// with salt and key in unpadded standard base64. The parameters travel with
// the hash, so they can be changed without invalidating stored accounts.
type argon2idHasher struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target.
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// NewPasswordHasher constructs a [PasswordHasher] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewPasswordHasher() PasswordHasher {
	return &argon2idHasher{
		time:    1,
		memory:  64 * 1024, // 64 MiB
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
}

// Hash implements [PasswordHasher]. It reads a fresh salt from the OS CSPRNG
// and derives the key with the receiver's parameters.
func (h *argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify implements [PasswordHasher]. The parameters encoded in the hash are
// used, not the receiver's. Keys are compared in constant time.
func (h *argon2idHasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return false, ErrIncompatibleVersion
	}

	var (
		memory, iterations uint32
		threads            uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
