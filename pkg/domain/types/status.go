package types

import "github.com/m-mizutani/goerr/v2"

// FetchStatus is the lifecycle state of a panel's data
type FetchStatus string

const (
	FetchStatusIdle    FetchStatus = "idle"
	FetchStatusLoading FetchStatus = "loading"
	FetchStatusSuccess FetchStatus = "success"
	FetchStatusError   FetchStatus = "error"
)

// String returns the string representation of the status
func (s FetchStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status ends a fetch
func (s FetchStatus) IsTerminal() bool {
	return s == FetchStatusSuccess || s == FetchStatusError
}

// Source tells where the numbers of a panel view came from
type Source string

const (
	SourceLive        Source = "live"
	SourcePlaceholder Source = "placeholder"
	SourceEmpty       Source = "empty"
)

// FallbackMode decides what a panel shows when its fetch fails
type FallbackMode string

const (
	// FallbackPlaceholder substitutes the panel's placeholder dataset
	FallbackPlaceholder FallbackMode = "placeholder"
	// FallbackEmpty shows an empty chart with a "no data" state
	FallbackEmpty FallbackMode = "empty"
	// FallbackError shows an error state with a stable message code
	FallbackError FallbackMode = "error"
)

// String returns the string representation
func (m FallbackMode) String() string {
	return string(m)
}

// IsValid checks if the fallback mode is supported
func (m FallbackMode) IsValid() bool {
	switch m {
	case FallbackPlaceholder, FallbackEmpty, FallbackError:
		return true
	default:
		return false
	}
}

// ParseFallbackMode converts a flag value to FallbackMode
func ParseFallbackMode(s string) (FallbackMode, error) {
	m := FallbackMode(s)
	if !m.IsValid() {
		return "", goerr.New("invalid fallback mode", goerr.V("mode", s))
	}
	return m, nil
}

// ErrorCode is a user-safe identifier for a failed panel load
type ErrorCode string

const (
	ErrorCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrorCodeUnexpectedResponse  ErrorCode = "UNEXPECTED_RESPONSE"
)
