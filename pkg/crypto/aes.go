package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

var ErrCiphertextTooShort = errors.New("ciphertext is shorter than the nonce")

// Crypto provides symmetric encryption for secret fields stored at
// rest (passwords, api keys, consumer secrets).
type Crypto interface {
	Encrypt(string) (string, error)
	Decrypt(string) (string, error)
}

// AES implements Crypto with AES-GCM. The key must be 16, 24, or 32
// bytes long.
type AES struct {
	key string
}

func NewAES(key string) *AES {
	return &AES{key: key}
}

func (a *AES) Encrypt(plainText string) (string, error) {
	gcm, err := a.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, []byte(plainText), nil)
	return base64.StdEncoding.EncodeToString(cipherText), nil
}

func (a *AES) Decrypt(encodedText string) (string, error) {
	gcm, err := a.gcm()
	if err != nil {
		return "", err
	}

	cipherText, err := base64.StdEncoding.DecodeString(encodedText)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(cipherText) < nonceSize {
		return "", ErrCiphertextTooShort
	}

	nonce, cipherText := cipherText[:nonceSize], cipherText[nonceSize:]
	plainText, err := gcm.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return "", err
	}

	return string(plainText), nil
}

func (a *AES) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher([]byte(a.key))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
