// Package apperr defines the error taxonomy shared by the memo service and
// its HTTP transport.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindUnknownVoice        Kind = "unknown_voice"
	KindMissingCredentials  Kind = "missing_credentials"
	KindMissingVoiceMapping Kind = "missing_voice_mapping"
	KindProvider            Kind = "provider"
	KindStore               Kind = "store"
	KindNotFound            Kind = "not_found"
	KindUnsupported         Kind = "unsupported"
	KindConfig              Kind = "config"
)

// Error is a classified failure. Status and Body are only set for provider
// errors and carry the upstream response.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Hint    string
	Status  int
	Body    string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error kind onto the status code returned to API callers.
func (e *Error) HTTPStatus() int {
	return StatusFor(e.Kind)
}

// WithHint returns e after attaching a caller-facing hint.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithDetail returns e after attaching a structured field that is echoed in
// the error response body.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap classifies err under kind. An err that is already classified keeps its
// original kind so that upstream failures are not re-labelled on the way out.
func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{Kind: kind, Op: op, Message: message, Cause: err}
}

func InvalidInput(op, message string) *Error {
	return New(KindInvalidInput, op, message)
}

func NotFound(op, message string) *Error {
	return New(KindNotFound, op, message)
}

func Unsupported(op, message, hint string) *Error {
	return New(KindUnsupported, op, message).WithHint(hint)
}

func MissingCredentials(op, message string) *Error {
	return New(KindMissingCredentials, op, message)
}

func MissingVoiceMapping(op, message string) *Error {
	return New(KindMissingVoiceMapping, op, message)
}

// Provider reports a non-success response from an upstream TTS service.
func Provider(op, provider string, status int, body string) *Error {
	return &Error{
		Kind:    KindProvider,
		Op:      op,
		Message: fmt.Sprintf("%s error: %d %s", provider, status, http.StatusText(status)),
		Status:  status,
		Body:    body,
	}
}

func Store(op string, err error) *Error {
	return Wrap(KindStore, op, "storage failure", err)
}

// KindOf returns the kind of the first classified error in err's chain, or
// the empty kind when none is present.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindInvalidInput, KindUnknownVoice:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
