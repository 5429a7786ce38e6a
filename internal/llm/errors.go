package llm

import (
	"errors"
	"fmt"
)

// ErrUnknownProvider is matched by every ConfigurationError
var ErrUnknownProvider = errors.New("unsupported provider type")

// ConfigurationError reports a provider selection outside the supported set
type ConfigurationError struct {
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownProvider, e.Value)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrUnknownProvider
}

// ErrorKind classifies a ProviderError
type ErrorKind string

const (
	KindNetwork       ErrorKind = "network"
	KindStatus        ErrorKind = "status"
	KindEmptyResponse ErrorKind = "empty_response"
	KindDecode        ErrorKind = "decode"
	KindConfiguration ErrorKind = "configuration"
)

// ProviderError is returned when a provider cannot produce a reply
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AsProviderError unwraps err into a *ProviderError if it is one
func AsProviderError(err error) (*ProviderError, bool) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// ExtractionError is reserved for replies that cannot be turned into text at all.
// ExtractQuery always returns a best-effort string, so it is never produced today.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "query extraction failed: " + e.Reason
}

func newProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// MissingSetting builds the configuration-kind error used when a credential is absent at call time
func MissingSetting(provider, setting string) *ProviderError {
	return newProviderError(provider, KindConfiguration, fmt.Errorf("%s is not configured", setting))
}
