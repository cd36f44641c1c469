package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// SessionKeySize is the AES-256 key length required for JUKEBOX_SESSION_KEY
const SessionKeySize = 32

// randReader supplies key material and nonces
var randReader io.Reader = rand.Reader

var errMalformedCiphertext = errors.New("malformed ciphertext")

// SessionSealer encrypts session ids into cookie values
type SessionSealer struct {
	encryptionKey []byte
}

// NewSessionSealer creates a sealer from a 32-byte key. An empty key
// generates an ephemeral one, so sessions do not survive a restart.
func NewSessionSealer(key string) (*SessionSealer, error) {
	if key == "" {
		newKey := make([]byte, SessionKeySize)
		if _, err := io.ReadFull(randReader, newKey); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
		return &SessionSealer{encryptionKey: newKey}, nil
	}
	if len(key) != SessionKeySize {
		return nil, fmt.Errorf("session key must be %d bytes, got %d", SessionKeySize, len(key))
	}
	return &SessionSealer{encryptionKey: []byte(key)}, nil
}

func (s *SessionSealer) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts the session id into a URL-safe cookie value
func (s *SessionSealer) Seal(sessionID string) (string, error) {
	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(sessionID), nil)
	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// Open decodes a cookie value back into the session id
func (s *SessionSealer) Open(sealed string) (string, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}

	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return "", errMalformedCiphertext
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
