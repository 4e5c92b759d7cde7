package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrNoGenerations = errors.New("generation response has no candidates")

// StatusError is a non-2xx answer from the generation endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.StatusCode, e.Message)
}

// TransportError means no usable HTTP response arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Category string

const (
	CategoryNone        Category = ""
	CategoryAuth        Category = "auth"
	CategoryRateLimit   Category = "rate_limit"
	CategoryBadRequest  Category = "bad_request"
	CategoryUnavailable Category = "unavailable"
)

// Classify buckets a Generate error for the user-facing message.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusUnauthorized, strings.Contains(se.Message, "invalid_api_token"):
			return CategoryAuth
		case se.StatusCode == http.StatusTooManyRequests:
			return CategoryRateLimit
		case se.StatusCode == http.StatusBadRequest:
			return CategoryBadRequest
		}
	}
	return CategoryUnavailable
}

const (
	authGuidance = `Authentication Error: Please check your Cohere API key.
• Make sure your API key is correct
• Verify it's active in your Cohere dashboard
• Check if you've exceeded your usage limits`

	rateLimitGuidance = `Rate Limit Error:
• You may have exceeded your rate limit
• Check your Cohere dashboard for usage details
• Try again in a few minutes`

	badRequestGuidance = `Request Error: There might be an issue with the request format.
• Try shortening your prompt
• Check if all required fields are filled`

	genericGuidance = `Please check:
1. Your Cohere API key is valid and active
2. You have available credits/usage in your Cohere account
3. Your internet connection is stable

Get your API key from: https://dashboard.cohere.ai/api-keys

Note: Cohere offers generous free tiers for getting started!`
)

// FailureMessage renders err as the text shown in place of a lab sheet.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	var guidance string
	switch Classify(err) {
	case CategoryAuth:
		guidance = authGuidance
	case CategoryRateLimit:
		guidance = rateLimitGuidance
	case CategoryBadRequest:
		guidance = badRequestGuidance
	default:
		guidance = genericGuidance
	}
	return "Error generating lab sheet: " + err.Error() + "\n\n" + guidance
}
