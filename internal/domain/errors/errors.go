// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for domain errors.
const (
	ErrCodeAccountInvalid    = "ACCOUNT_INVALID"
	ErrCodeCredentialMissing = "CREDENTIAL_MISSING"
	ErrCodeGroupMembership   = "GROUP_MEMBERSHIP_MISSING"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeDataShape         = "DATA_SHAPE_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error. Message is safe to show
// to the end user; Details and Err are for logs.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to the chat user for this error.
func (e *DomainError) UserMessage() string {
	return e.Message
}

// NewAccountInvalidError marks a user account that fails the gate: not
// found, banned, or deleted.
func NewAccountInvalidError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAccountInvalid,
		Message: message,
	}
}

// NewCredentialMissingError marks a user with no active API key.
func NewCredentialMissingError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCredentialMissing,
		Message: message,
	}
}

// NewGroupMembershipError marks a user missing a required group.
func NewGroupMembershipError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeGroupMembership,
		Message: message,
	}
}

// NewUpstreamError wraps a non-2xx or transport failure from the sandbox
// API. The message carries the upstream-supplied text when available.
func NewUpstreamError(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeUpstream,
		Message: message,
		Err:     err,
	}
}

// NewValidationError marks malformed user input (bad UUID, empty field).
func NewValidationError(message string, details string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Details: details,
	}
}

// NewDataShapeError marks an upstream response that is not in the
// expected shape, e.g. a history payload that is not a list.
func NewDataShapeError(message string, details string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDataShape,
		Message: message,
		Details: details,
	}
}

// NewInternalError wraps an unexpected failure (store, cache, transport
// plumbing).
func NewInternalError(message string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: message,
		Details: details,
		Err:     err,
	}
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsDomainError checks if the error is a domain error.
func IsDomainError(err error) bool {
	_, ok := GetDomainError(err)
	return ok
}

// IsAccountInvalid checks if the error is an account-invalid error.
func IsAccountInvalid(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeAccountInvalid
}

// IsCredentialMissing checks if the error is a credential-missing error.
func IsCredentialMissing(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeCredentialMissing
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeValidation
}

// IsUpstreamError checks if the error is an upstream error.
func IsUpstreamError(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeUpstream
}
