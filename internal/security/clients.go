package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown client or a wrong secret
var ErrInvalidCredentials = errors.New("invalid client credentials")

// dummyHash keeps verification time similar for unknown client ids
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3NIGRFPrVHwQzHAU7SXJ7yW")

// ClientVerifier checks API client secrets against bcrypt hashes
type ClientVerifier struct {
	clients map[string]string
}

// NewClientVerifier creates a verifier from a client id to bcrypt hash map
func NewClientVerifier(clients map[string]string) *ClientVerifier {
	copied := make(map[string]string, len(clients))
	for id, hash := range clients {
		copied[id] = hash
	}
	return &ClientVerifier{clients: copied}
}

// Verify returns nil when secret matches the stored hash for clientID
func (v *ClientVerifier) Verify(clientID, secret string) error {
	hash, ok := v.clients[clientID]
	if !ok {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashSecret produces a bcrypt hash suitable for the auth.clients config map
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}
