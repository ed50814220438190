package oauth2

import (
	"errors"
	"fmt"
)

// ErrorCode is the closed taxonomy of everything that can go wrong during
// authorization, token exchange, or request authentication. Every error
// surfaced by this module is an *Error carrying one of these codes; raw
// transport errors never escape unclassified.
type ErrorCode string

const (
	// ErrCodeCancel means the user dismissed the authorization UI without
	// completing the flow. Produced only by the orchestrator, never by
	// Classify.
	ErrCodeCancel ErrorCode = "cancel"

	// ErrCodeApplicationSuspended means the OAuth application has been
	// suspended by the provider.
	ErrCodeApplicationSuspended ErrorCode = "application_suspended"

	// ErrCodeRedirectURIMismatch means the redirect URI does not match the
	// one registered with the OAuth application.
	ErrCodeRedirectURIMismatch ErrorCode = "redirect_uri_mismatch"

	// ErrCodeAccessDenied means the user denied access.
	ErrCodeAccessDenied ErrorCode = "access_denied"

	// ErrCodeInvalidRequest means required parameters were missing or
	// malformed.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeInvalidScope means the requested scope is not a valid subset of
	// the scopes the application may request.
	ErrCodeInvalidScope ErrorCode = "invalid_scope"

	// ErrCodeInvalidClient means the client id and/or secret are incorrect.
	ErrCodeInvalidClient ErrorCode = "invalid_client"

	// ErrCodeInvalidGrant means the verification code or refresh token is
	// incorrect or expired.
	ErrCodeInvalidGrant ErrorCode = "invalid_grant"

	// ErrCodeServerError means the provider reported an internal error.
	ErrCodeServerError ErrorCode = "server_error"

	// ErrCodeTemporarilyUnavailable means the endpoint is temporarily unable
	// to respond.
	ErrCodeTemporarilyUnavailable ErrorCode = "temporarily_unavailable"

	// ErrCodeInvalidAccessToken means no usable token is available for
	// authenticating a request: none stored, or the stored one has an
	// unsupported type.
	ErrCodeInvalidAccessToken ErrorCode = "invalid_access_token"

	// ErrCodeDeserialization means the response body was not a JSON object.
	ErrCodeDeserialization ErrorCode = "deserialization_failure"

	// ErrCodeNoData means the provider returned an empty response body.
	ErrCodeNoData ErrorCode = "no_data"

	// ErrCodeOther is a provider-reported error code outside the registered
	// set. The original code string is preserved in WireCode.
	ErrCodeOther ErrorCode = "other"

	// ErrCodeUnknown means the response matched neither a token nor an error
	// shape. The payload is preserved in Raw.
	ErrCodeUnknown ErrorCode = "unknown"

	// ErrCodeTransport wraps a network-level failure (connection, timeout).
	ErrCodeTransport ErrorCode = "transport_error"

	// ErrCodeAlreadyAuthorizing means Authorize was called while a previous
	// authorization attempt was still pending.
	ErrCodeAlreadyAuthorizing ErrorCode = "already_authorizing"
)

// Error is the only error type returned by provider operations.
type Error struct {
	Code        ErrorCode
	Description string

	// WireCode is the provider's original machine-readable error string for
	// provider-reported errors. For registered codes it equals string(Code);
	// for ErrCodeOther it preserves whatever the provider sent, aliases
	// included.
	WireCode string

	// Raw holds the response payload for ErrCodeUnknown.
	Raw map[string]any

	cause error
}

func (e *Error) Error() string {
	switch {
	case e.Description != "":
		return fmt.Sprintf("oauth2: %s: %s", e.Code, e.Description)
	case e.cause != nil:
		return fmt.Sprintf("oauth2: %s: %v", e.Code, e.cause)
	default:
		return fmt.Sprintf("oauth2: %s", e.Code)
	}
}

// Unwrap exposes the transport cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds a taxonomy error directly. Used by the orchestrator for
// locally produced failures (cancel, invalid access token, missing refresh
// token).
func NewError(code ErrorCode, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Transport wraps a network-level failure.
func Transport(cause error) *Error {
	return &Error{Code: ErrCodeTransport, cause: cause}
}

// wireCodes maps provider error strings to taxonomy codes. Matching is
// case-sensitive per RFC 6749; the two legacy aliases are GitHub's.
var wireCodes = map[string]ErrorCode{
	"application_suspended":        ErrCodeApplicationSuspended,
	"redirect_uri_mismatch":        ErrCodeRedirectURIMismatch,
	"access_denied":                ErrCodeAccessDenied,
	"invalid_request":              ErrCodeInvalidRequest,
	"invalid_scope":                ErrCodeInvalidScope,
	"invalid_client":               ErrCodeInvalidClient,
	"incorrect_client_credentials": ErrCodeInvalidClient,
	"invalid_grant":                ErrCodeInvalidGrant,
	"bad_verification_code":        ErrCodeInvalidGrant,
	"server_error":                 ErrCodeServerError,
	"temporarily_unavailable":      ErrCodeTemporarilyUnavailable,
}

// Classify maps a provider response payload into the taxonomy. A payload
// without both "error" and "error_description" string fields is unknown; the
// payload is kept for diagnostics.
func Classify(payload map[string]any) *Error {
	code, codeOK := payload["error"].(string)
	description, descOK := payload["error_description"].(string)
	if !codeOK || !descOK {
		return &Error{Code: ErrCodeUnknown, Raw: payload}
	}

	if mapped, ok := wireCodes[code]; ok {
		return &Error{Code: mapped, Description: description, WireCode: code}
	}
	return &Error{Code: ErrCodeOther, Description: description, WireCode: code}
}

// IsCode reports whether err is a taxonomy error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code == code
	}
	return false
}
