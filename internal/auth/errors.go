package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// VerificationReason classifies why a token was rejected. It is only ever logged;
// clients always see the same generic message.
type VerificationReason string

const (
	ReasonMalformed        VerificationReason = "malformed"
	ReasonExpired          VerificationReason = "expired"
	ReasonInvalidSignature VerificationReason = "invalid_signature"
	ReasonRevoked          VerificationReason = "revoked"
	ReasonInvalidClaims    VerificationReason = "invalid_claims"
)

// VerificationError is returned by JWTService.VerifyToken for every rejected token.
type VerificationError struct {
	Reason VerificationReason
	Err    error
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("token verification failed: %s", e.Reason)
	}
	return fmt.Sprintf("token verification failed: %s: %v", e.Reason, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the verification reason from err, or "" if err is not a VerificationError.
func ReasonOf(err error) VerificationReason {
	var ve *VerificationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

// classifyParseError maps jwt parser errors onto a VerificationReason.
func classifyParseError(err error) *VerificationError {
	reason := ReasonInvalidClaims
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		reason = ReasonMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		reason = ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		reason = ReasonInvalidSignature
	}
	return &VerificationError{Reason: reason, Err: err}
}
