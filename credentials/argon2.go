package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrWeakParams    = errors.New("argon2 parameters below minimum")
	ErrMalformedHash = errors.New("malformed argon2id hash")
)

const (
	minMemoryKB  = 8 * 1024
	minSaltBytes = 16
	minKeyBytes  = 16
	minSecretLen = 8
)

// Params are the argon2id cost parameters.
type Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns interactive-login defaults.
func DefaultParams() Params {
	return Params{Memory: 64 * 1024, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32}
}

func (p Params) validate() error {
	switch {
	case p.Memory < minMemoryKB:
		return fmt.Errorf("%w: memory must be >= %d KB", ErrWeakParams, minMemoryKB)
	case p.Time < 1:
		return fmt.Errorf("%w: time must be >= 1", ErrWeakParams)
	case p.Parallelism < 1:
		return fmt.Errorf("%w: parallelism must be >= 1", ErrWeakParams)
	case p.SaltLength < minSaltBytes:
		return fmt.Errorf("%w: salt length must be >= %d", ErrWeakParams, minSaltBytes)
	case p.KeyLength < minKeyBytes:
		return fmt.Errorf("%w: key length must be >= %d", ErrWeakParams, minKeyBytes)
	}
	return nil
}

// HashSecret encodes secret as a PHC string:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
func HashSecret(p Params, secret string) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	if len(secret) < minSecretLen {
		return "", fmt.Errorf("secret must be at least %d bytes", minSecretLen)
	}

	salt := make([]byte, p.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(secret), salt, p.Time, p.Memory, p.Parallelism, p.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifySecret compares secret against a PHC-encoded hash in constant time.
func VerifySecret(secret, encoded string) (bool, error) {
	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(secret), salt, p.Time, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

// NeedsRehash reports whether encoded was produced with weaker params than p.
func NeedsRehash(p Params, encoded string) (bool, error) {
	stored, _, _, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	return stored.Memory < p.Memory || stored.Time < p.Time ||
		stored.Parallelism < p.Parallelism || stored.KeyLength != p.KeyLength, nil
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	var p Params
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: unsupported version", ErrMalformedHash)
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := b64.DecodeString(fields[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	if err := p.validate(); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return p, salt, key, nil
}
