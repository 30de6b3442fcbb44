// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist provides durable storage for session snapshots.
package persist

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// saltSize is the size of the salt for key derivation (32 bytes).
	saltSize = 32

	// nonceSize is the size of the nonce/IV for AES-GCM (12 bytes / 96 bits).
	nonceSize = 12

	// keySize is the size of the AES-256 key (32 bytes / 256 bits).
	keySize = 32

	// pbkdf2Iterations is the iteration count for PBKDF2-SHA-256 key
	// derivation. OWASP 2023 recommends 600,000+.
	pbkdf2Iterations = 600000
)

// ErrDecryptionFailed indicates decryption failed (wrong passphrase or
// tampered data). Callers treat an undecryptable snapshot like a malformed
// one: the engine starts empty rather than crashing.
var ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")

// =============================================================================
// ENCRYPTED ADAPTER
// =============================================================================

// EncryptedAdapter wraps another Adapter and encrypts the snapshot at rest
// with AES-256-GCM, deriving the key from a passphrase via PBKDF2-SHA-256.
// Stored layout: salt | nonce | ciphertext.
type EncryptedAdapter struct {
	inner      Adapter
	passphrase []byte
}

// NewEncryptedAdapter wraps inner with passphrase-based encryption.
func NewEncryptedAdapter(inner Adapter, passphrase string) *EncryptedAdapter {
	return &EncryptedAdapter{
		inner:      inner,
		passphrase: []byte(passphrase),
	}
}

// Load reads and decrypts the snapshot from the inner adapter.
func (a *EncryptedAdapter) Load() ([]byte, error) {
	blob, err := a.inner.Load()
	if err != nil {
		return nil, err
	}
	if len(blob) < saltSize+nonceSize {
		return nil, ErrDecryptionFailed
	}

	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	ciphertext := blob[saltSize+nonceSize:]

	aead, err := a.aead(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// Save encrypts the snapshot and writes it through the inner adapter.
// A fresh random salt and nonce are used for every write.
func (a *EncryptedAdapter) Save(data []byte) error {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aead, err := a.aead(salt)
	if err != nil {
		return err
	}

	blob := make([]byte, 0, saltSize+nonceSize+len(data)+aead.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = aead.Seal(blob, nonce, data, nil)

	return a.inner.Save(blob)
}

// aead builds the AES-256-GCM cipher for the given salt.
func (a *EncryptedAdapter) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(a.passphrase, salt, pbkdf2Iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
