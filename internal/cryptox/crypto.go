// Package cryptox seals small JSON values at rest. The client uses it for
// the persisted auth session when a passphrase is configured.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	KeySize  = 32
	SaltSize = 16
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey stretches passphrase into an AES-256 key with argon2id.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// Seal marshals v to JSON and encrypts it with AES-GCM. The random nonce is
// prepended to the returned ciphertext.
func Seal(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal and unmarshals the plaintext into v.
func Open(sealed []byte, key []byte, v any) error {
	aead, err := newGCM(key)
	if err != nil {
		return err
	}

	ns := aead.NonceSize()
	if len(sealed) < ns {
		return ErrCiphertextTooShort
	}

	plaintext, err := aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
