package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRequestTimeout bounds a single provider round trip when no timeout is configured
const DefaultRequestTimeout = 60 * time.Second

const maxErrorBody = 4 << 10

// NewHTTPClient creates the pooled client shared by provider instances.
// http.Client and its Transport are safe for concurrent use.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxIdleConnsPerHost = 32
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// PostJSON sends body as a JSON POST to endpoint and decodes a successful reply into out.
// Every failure is returned as a *ProviderError tagged with provider.
func PostJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers http.Header, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", provider, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return newProviderError(provider, KindConfiguration, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		// url.Error repeats the request URL, which may carry an API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return newProviderError(provider, KindNetwork, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ProviderError{
			Provider:   provider,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        errors.New(statusMessage(resp.StatusCode, msg)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newProviderError(provider, KindNetwork, fmt.Errorf("failed to read response: %w", err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return newProviderError(provider, KindEmptyResponse, errors.New("empty response body"))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return newProviderError(provider, KindDecode, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// EmptyReply reports a well-formed envelope that carries no text
func EmptyReply(provider, what string) *ProviderError {
	return newProviderError(provider, KindEmptyResponse, fmt.Errorf("%s returned an empty response: %s", provider, what))
}

func statusMessage(code int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(code)
	}
	return text
}
