// Package signing signs change records with an Ed25519 key pair and
// verifies them. A document uses the single key pair at its configured
// key path (signing.keyPath, or ~/.config/peritext/signing_key); changes
// are verified against that same public key, not a key looked up per
// actor.
package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mjurincic/peritext/internal/config"
	"github.com/mjurincic/peritext/internal/crdt"
)

// KeyPair is an actor's signing identity.
type KeyPair struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

// GenerateKeyPair creates a new Ed25519 key pair for the document at
// docPath and writes it to the configured (or default) key path.
func GenerateKeyPair(docPath string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	keyPath, err := getKeyPath(docPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyPath, priv, 0600); err != nil {
		return nil, fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(keyPath+".pub", pub, 0644); err != nil {
		return nil, fmt.Errorf("failed to write public key: %w", err)
	}
	return &KeyPair{PrivateKey: priv, PublicKey: pub}, nil
}

// LoadKeyPair loads an existing key pair for the document at docPath.
func LoadKeyPair(docPath string) (*KeyPair, error) {
	keyPath, err := getKeyPath(docPath)
	if err != nil {
		return nil, err
	}

	priv, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	var pk ed25519.PrivateKey
	switch len(priv) {
	case ed25519.SeedSize:
		pk = ed25519.NewKeyFromSeed(priv)
	case ed25519.PrivateKeySize:
		pk = priv
	default:
		return nil, fmt.Errorf("invalid Ed25519 key length: %d", len(priv))
	}

	pub, err := os.ReadFile(keyPath + ".pub")
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key length: %d", len(pub))
	}

	return &KeyPair{PrivateKey: pk, PublicKey: pub}, nil
}

// signingMessage canonicalizes the fields of a change that must not be
// tampered with after signing; the signature itself is excluded.
func signingMessage(c *crdt.Change) ([]byte, error) {
	unsigned := *c
	unsigned.Signature = ""
	return json.Marshal(unsigned)
}

// Sign signs c in place using the key pair for docPath, setting
// c.Signature to a hex-encoded Ed25519 signature.
func Sign(docPath string, c *crdt.Change) error {
	kp, err := LoadKeyPair(docPath)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}
	msg, err := signingMessage(c)
	if err != nil {
		return err
	}
	sig := ed25519.Sign(kp.PrivateKey, msg)
	c.Signature = hex.EncodeToString(sig)
	return nil
}

// Verify checks c's signature against the public key for docPath.
func Verify(docPath string, c *crdt.Change) (bool, error) {
	if c.Signature == "" {
		return false, fmt.Errorf("change has no signature")
	}
	kp, err := LoadKeyPair(docPath)
	if err != nil {
		return false, fmt.Errorf("failed to load verification key: %w", err)
	}
	sigBytes, err := hex.DecodeString(c.Signature)
	if err != nil {
		return false, fmt.Errorf("invalid signature format: %w", err)
	}
	msg, err := signingMessage(c)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(kp.PublicKey, msg, sigBytes), nil
}

func getKeyPath(docPath string) (string, error) {
	keyPath, err := config.GetValue(docPath, config.KeySigningKeyPath)
	if err != nil {
		return "", fmt.Errorf("failed to get key path from config: %w", err)
	}
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		keyPath = filepath.Join(home, ".config", "peritext", "signing_key")
	}
	return keyPath, nil
}
