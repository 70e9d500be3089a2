package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashingFailed = errors.New("api key hashing failed")

// KeyHasher provides interface for API key operations. Keys are stored
// hashed in configuration so a leaked config file does not leak the key.
type KeyHasher interface {
	Hash(key string) (string, error)
	Compare(hashedKey, key string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new key hasher using bcrypt
func NewBcryptHasher(cost int) KeyHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedKey, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(key))
}
