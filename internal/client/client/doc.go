// Package client contains the client-side API for the SeNiko HTTP server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     Register, Login and Me.
//  2. An HTTP implementation (see HTTPClient) that encodes requests as JSON,
//     sends the bearer token where needed and maps error responses to
//     sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrConflict, ErrRateLimited.
// Every non-2xx response is also returned as an *APIError carrying the
// server's code, message and offending field.
//
// All operations accept context.Context and honor cancellation and timeouts.
package client
