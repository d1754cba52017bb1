package token

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/todamoon/terminal/internal/models"
)

// DefaultKey is the key the deployed driver cards were issued with.
const DefaultKey = "Todamoon_drivers"

// ErrInvalidToken is returned for any token that cannot be turned into a
// complete payload. Callers never receive a partial payload.
var ErrInvalidToken = errors.New("invalid token")

// Cipher decodes and encodes driver tokens. Tokens are AES in ECB mode with
// PKCS#7 padding and no integrity tag, base64 encoded.
type Cipher struct {
	block     cipher.Block
	validator *validator.Validate
}

// NewCipher creates a cipher for a 16, 24 or 32 byte AES key.
func NewCipher(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &Cipher{
		block:     block,
		validator: validator.New(),
	}, nil
}

// Decode turns a raw scanned string into a validated payload.
func (c *Cipher) Decode(raw string) (models.Payload, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return models.Payload{}, fmt.Errorf("%w: base64: %v", ErrInvalidToken, err)
	}

	plaintext, err := c.decrypt(ciphertext)
	if err != nil {
		return models.Payload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !utf8.Valid(plaintext) {
		return models.Payload{}, fmt.Errorf("%w: plaintext is not utf-8", ErrInvalidToken)
	}

	payload := ParsePayload(string(plaintext))
	if err := c.validator.Struct(&payload); err != nil {
		return models.Payload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return payload, nil
}

// Encode is the inverse of Decode. Payloads that would not survive the
// round trip are refused with ErrInvalidToken.
func (c *Cipher) Encode(payload models.Payload) (string, error) {
	if err := c.validator.Struct(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := checkEncodable(payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	plaintext := pad([]byte(FormatPayload(payload)), aes.BlockSize)
	ciphertext := make([]byte, len(plaintext))
	for i := 0; i < len(plaintext); i += aes.BlockSize {
		c.block.Encrypt(ciphertext[i:i+aes.BlockSize], plaintext[i:i+aes.BlockSize])
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (c *Cipher) decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}

	plaintext := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		c.block.Decrypt(plaintext[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}

	return unpad(plaintext, aes.BlockSize)
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("bad padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("bad padding")
		}
	}
	return data[:len(data)-n], nil
}
