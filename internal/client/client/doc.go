// Package client contains the Backend Gateway of the Chepeat client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     auth, seller profiles, products, purchase requests and transactions.
//  2. A concrete JSON-over-HTTPS implementation (see HTTPClient) that
//     attaches the bearer token carried by the context, stamps every call with
//     an X-Request-ID, applies a per-call timeout and a client-side rate limit,
//     and maps HTTP status codes to sentinel errors.
//
// # Error Handling
//
// Failures are returned as *GatewayError and unwrap to ErrUnauthorized (401,
// 403), ErrNotFound (404), ErrConflict (409) or ErrUnavailable (transport
// failure, timeout or any other non-2xx).
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call accepts a context and
// honours its cancellation; no call is retried.
package client
