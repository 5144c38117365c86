// Package auth resolves the caller's verified identity for each request.
//
// The session pipeline is strict: a credential is extracted from the
// access_token cookie or the Authorization header (cookie wins), handed to a
// Verifier, and the resulting Identity is published into the request context.
// Nothing downstream runs without it, and nothing here touches a store.
package auth

import "errors"

// ErrInvalidToken is returned by a Verifier for any credential it cannot
// accept. Expired, malformed, and badly signed tokens all collapse into this
// one error so the response never tells the caller which case it hit.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified caller, valid for one request.
type Identity struct {
	SubjectID string
	Email     string
}

// Verifier turns a raw bearer credential into a verified Identity.
// Implementations must return ErrInvalidToken for every verification
// failure.
type Verifier interface {
	Verify(token string) (Identity, error)
}
