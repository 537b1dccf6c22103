package sdk

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"
)

// Ed25519KeyPair is a KeyPair backed by an ed25519 private key.
type Ed25519KeyPair struct {
	account string
	private ed25519.PrivateKey
}

var _ KeyPair = (*Ed25519KeyPair)(nil)

// NewEd25519KeyPair derives the key pair for account from a 32-byte seed.
func NewEd25519KeyPair(account string, seed []byte) (*Ed25519KeyPair, error) {
	if strings.TrimSpace(account) == "" {
		return nil, fmt.Errorf("account number is required")
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Ed25519KeyPair{account: account, private: ed25519.NewKeyFromSeed(seed)}, nil
}

// ParseEd25519KeyPair is NewEd25519KeyPair with a hex encoded seed.
func ParseEd25519KeyPair(account, hexSeed string) (*Ed25519KeyPair, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(hexSeed))
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return NewEd25519KeyPair(account, seed)
}

func (k *Ed25519KeyPair) AccountNumber() string {
	return k.account
}

func (k *Ed25519KeyPair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.private, message), nil
}

// PublicKey returns the public half of the key pair.
func (k *Ed25519KeyPair) PublicKey() ed25519.PublicKey {
	return k.private.Public().(ed25519.PublicKey)
}
