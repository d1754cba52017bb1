package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/skip2/go-qrcode"
	"github.com/todamoon/terminal/internal/models"
)

const qrImageSize = 256

type TokenEncoder interface {
	Encode(payload models.Payload) (string, error)
}

// IssuedToken is an encrypted driver token and its QR rendering.
type IssuedToken struct {
	UID     string
	Token   string
	QRImage string // base64 PNG
}

type TokenService struct {
	accounts AccountLookup
	encoder  TokenEncoder
}

// NewTokenService creates a token issuing service
func NewTokenService(accounts AccountLookup, encoder TokenEncoder) *TokenService {
	return &TokenService{
		accounts: accounts,
		encoder:  encoder,
	}
}

// GenerateToken issues a token for an existing account only.
func (s *TokenService) GenerateToken(ctx context.Context, uid string) (*IssuedToken, error) {
	account, err := s.accounts.Resolve(ctx, uid)
	if err != nil {
		return nil, err
	}

	raw, err := s.encoder.Encode(models.Payload{UID: account.UID, Name: account.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}

	qr, err := qrcode.New(raw, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(qrImageSize)); err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}

	return &IssuedToken{
		UID:     account.UID,
		Token:   raw,
		QRImage: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}
