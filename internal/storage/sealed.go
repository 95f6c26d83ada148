package storage

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	sealedPrefix = "v1:"
	sealedSalt   = "freshcart-secure-storage"
)

var (
	ErrSecretEmpty   = errors.New("storage secret is empty")
	ErrSealedCorrupt = errors.New("sealed value corrupt")
)

// Sealed 加密装饰器：值以 XChaCha20-Poly1305 加密后写入底层存储，键作为附加数据
type Sealed struct {
	inner Storage
	aead  cipher.AEAD
}

// NewSealed 以 secret 派生密钥创建加密存储
func NewSealed(inner Storage, secret string) (*Sealed, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretEmpty
	}
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), []byte(sealedSalt), []byte("session"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive storage key failed: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealed{inner: inner, aead: aead}, nil
}

// Get 读取并解密
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.open(key, raw)
	if err != nil {
		return "", false, err
	}
	return plain, true, nil
}

// Set 加密并写入
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, sealed)
}

// Delete 删除
func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *Sealed) seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce failed: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), []byte(strings.TrimSpace(key)))
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(out), nil
}

func (s *Sealed) open(key, raw string) (string, error) {
	if !strings.HasPrefix(raw, sealedPrefix) {
		return "", ErrSealedCorrupt
	}
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(raw, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedCorrupt, err)
	}
	if len(data) < s.aead.NonceSize() {
		return "", ErrSealedCorrupt
	}
	nonce, ciphertext := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, []byte(strings.TrimSpace(key)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedCorrupt, err)
	}
	return string(plain), nil
}
