package models

// Payload is the decrypted content of a scanned driver token.
type Payload struct {
	UID   string            `json:"uid" validate:"required"`
	Name  string            `json:"name,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}
