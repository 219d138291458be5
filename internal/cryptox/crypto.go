// Package cryptox seals secure-store values at rest: Argon2id derives a
// 256-bit key from the configured passphrase, AES-GCM encrypts each value.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/chepeat/chepeat/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length produced by DeriveKey.
const KeySize = 32

// SaltSize is the recommended salt length for DeriveKey.
const SaltSize = 16

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey stretches passphrase with salt using Argon2id.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with AES-GCM under key. The random nonce is
// prepended to the returned ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. It fails if the data was tampered with or the key is wrong.
func Open(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	n := aesgcm.NonceSize()
	if len(sealed) < n {
		return nil, ErrCiphertextTooShort
	}
	return aesgcm.Open(nil, sealed[:n], sealed[n:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
