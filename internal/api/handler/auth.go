package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/sqlquery-ai/internal/api/response"
)

// TokenRequest exchanges client credentials for an access token
type TokenRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// CredentialVerifier checks a client id and secret
type CredentialVerifier interface {
	Verify(clientID, secret string) error
}

// TokenIssuer signs access tokens for a client
type TokenIssuer interface {
	GenerateAccessToken(clientID string) (string, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	verifier  CredentialVerifier
	issuer    TokenIssuer
	expiresIn int64
}

// NewAuthHandler creates a new auth handler. expiresIn is reported in seconds.
func NewAuthHandler(verifier CredentialVerifier, issuer TokenIssuer, expiresIn int64) *AuthHandler {
	return &AuthHandler{verifier: verifier, issuer: issuer, expiresIn: expiresIn}
}

// Token issues a bearer token for valid client credentials
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var input TokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	if err := h.verifier.Verify(input.ClientID, input.ClientSecret); err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	token, err := h.issuer.GenerateAccessToken(input.ClientID)
	if err != nil {
		response.InternalError(w, "failed to issue token")
		return
	}

	response.OK(w, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   h.expiresIn,
	})
}
