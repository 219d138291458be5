// Package services contains the application services of the Chepeat client.
// Each service is safe for concurrent use, reads session state through
// session.Repository and talks to the backend through client.Client.
// Failures cross the service boundary as *common.AppError whose Message
// names the action, so the caller can show one alert per failure.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/session"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/chepeat/chepeat/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AppError codes.
const (
	CodeAuthMissing         = "AUTH_MISSING"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeProfileNotFound     = "PROFILE_NOT_FOUND"
	CodeNotOwner            = "NOT_OWNER"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeNetwork             = "NETWORK_FAILURE"
	CodeLocationUnavailable = "LOCATION_UNAVAILABLE"
	CodeValidation          = "VALIDATION_FAILURE"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeInProgress          = "ACTION_IN_PROGRESS"
	CodeInternal            = "INTERNAL"
)

var codes = []struct {
	err  error
	code string
}{
	{common.ErrAuthMissing, CodeAuthMissing},
	{common.ErrInvalidCredentials, CodeInvalidCredentials},
	{client.ErrUnauthorized, CodeUnauthorized},
	{common.ErrProfileNotFound, CodeProfileNotFound},
	{common.ErrNotOwner, CodeNotOwner},
	{client.ErrNotFound, CodeNotFound},
	{client.ErrConflict, CodeConflict},
	{client.ErrUnavailable, CodeNetwork},
	{common.ErrLocationUnavailable, CodeLocationUnavailable},
	{common.ErrValidation, CodeValidation},
	{common.ErrInvalidTransition, CodeInvalidTransition},
	{common.ErrActionInProgress, CodeInProgress},
	{context.DeadlineExceeded, CodeNetwork},
	{context.Canceled, CodeNetwork},
}

func codeOf(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// fail logs err for action and wraps it in an AppError. Expected absence of
// a seller profile is logged at Info since it only drives a prompt.
func fail(ctx context.Context, log logging.Logger, action string, err error) error {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return err
	}

	code := codeOf(err)
	args := []any{"action", action, "code", code, "err", err}
	if id := client.RequestIDOf(err); id != "" {
		args = append(args, "request_id", id)
	}
	if code == CodeProfileNotFound {
		log.Info(ctx, "operation finished without result", args...)
	} else {
		log.Error(ctx, "operation failed", args...)
	}
	return common.NewAppError(code, fmt.Sprintf("could not %s", action), err)
}

// authorize returns ctx carrying the cached access token. A missing token, or
// one whose exp claim has passed, yields common.ErrAuthMissing before any
// network call.
func authorize(ctx context.Context, sess session.Repository) (context.Context, error) {
	access, _, err := sess.Tokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if access == "" || tokenExpired(access, time.Now()) {
		return nil, common.ErrAuthMissing
	}
	return client.WithAccessToken(ctx, access), nil
}

// tokenExpired reads the exp claim without verifying the signature; the
// backend stays the authority. Opaque tokens are never considered expired.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}
