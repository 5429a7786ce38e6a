package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

var errInvalidBody = errors.New("invalid request body")

// PromptRequest is the body of the generate endpoints
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required,max=4000"`
}

// QueryRequest is the body of the execute endpoint
type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

// decodeText accepts either a bare JSON string or an object, filling dst.
// A bare string is stored through assign.
func decodeText(w http.ResponseWriter, r *http.Request, dst any, assign func(string)) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return errInvalidBody
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '"' {
		var text string
		if err := json.Unmarshal(body, &text); err != nil {
			return errInvalidBody
		}
		assign(text)
		return nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func decodePrompt(w http.ResponseWriter, r *http.Request) (PromptRequest, error) {
	var req PromptRequest
	err := decodeText(w, r, &req, func(s string) { req.Prompt = s })
	return req, err
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (QueryRequest, error) {
	var req QueryRequest
	err := decodeText(w, r, &req, func(s string) { req.Query = s })
	return req, err
}
