package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// InputMalformedMessage describes a missing or unusable form field.
	InputMalformedMessage = "input malformed"
	// RequestFailureMessage describes a failed call to the text-generation model.
	RequestFailureMessage = "itinerary request failed"
)

var (
	// ErrInputMalformed matches every error produced by InputMalformed.
	ErrInputMalformed = errors.New("input malformed")
	// ErrRequestFailure matches every error produced by WrapModel.
	ErrRequestFailure = errors.New("request failure")
	// ErrEmptyResponse is reported when the model answers with no text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// InputMalformed reports an unusable form field.
func InputMalformed(field, reason string) error {
	return New(fmt.Errorf("%w: %s %s", ErrInputMalformed, field, reason), http.StatusBadRequest, InputMalformedMessage)
}

// WrapModel maps a text-generation failure to RequestFailure. Errors that
// already carry ErrRequestFailure are returned as is.
func WrapModel(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRequestFailure) {
		return err
	}
	return New(fmt.Errorf("%w: %w", ErrRequestFailure, err), http.StatusBadGateway, RequestFailureMessage)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
