// Package common contains shared constants, sentinel errors and small helpers
// used across Chepeat client components.
package common

// AuthorizationHeaderName carries the bearer access token on outbound
// gateway requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-call correlation id so client logs can be
// matched with backend logs.
const RequestIDHeaderName = "X-Request-ID"
