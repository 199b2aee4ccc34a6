package rp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	errEmptyBody   = errors.New("empty response body")
	errNullBody    = errors.New("null error body")
	errInvalidText = errors.New("response body is not valid UTF-8 text")
)

// errorDecoder turns an error response body into an ErrorMessage.
type errorDecoder func(body []byte) (ErrorMessage, error)

// errorDecoders are tried in order; the first success wins.
var errorDecoders = []errorDecoder{
	decodeStructuredError,
	decodePlainTextError,
}

func decodeStructuredError(body []byte) (ErrorMessage, error) {
	var m *ErrorMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return ErrorMessage{}, err
	}
	if m == nil {
		return ErrorMessage{}, errNullBody
	}
	return *m, nil
}

func decodePlainTextError(body []byte) (ErrorMessage, error) {
	text := bytes.TrimSpace(body)
	if len(text) == 0 {
		return ErrorMessage{}, errEmptyBody
	}
	// A body that merely starts with a quote is still plain text.
	if text[0] == '"' {
		var s string
		if err := json.Unmarshal(text, &s); err == nil {
			return ErrorMessage{Message: s}, nil
		}
	}
	if !utf8.Valid(text) {
		return ErrorMessage{}, errInvalidText
	}
	return ErrorMessage{Message: string(text)}, nil
}

// decodeErrorMessage never fails: when no decoder succeeds it returns a
// synthetic message carrying the last decoding failure.
func decodeErrorMessage(body []byte) ErrorMessage {
	var cause error
	for _, decode := range errorDecoders {
		m, err := decode(body)
		if err == nil {
			m.Cause = cause
			return m
		}
		cause = err
	}
	return ErrorMessage{Message: unparsableMessage, Cause: cause}
}

// handleResponse classifies a response by status class. 2xx bodies are
// decoded into dst, 3xx is always an error and anything else becomes a
// *ClientError with the best-effort decoded error body.
func handleResponse(operation string, statusCode int, body []byte, dst any) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		if dst == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, dst); err != nil {
			return fmt.Errorf("%s: decode response: %w", operation, err)
		}
		return nil
	case statusCode >= 300 && statusCode < 400:
		return newRedirectError(operation, statusCode)
	default:
		return newClientError(operation, statusCode, decodeErrorMessage(body))
	}
}
