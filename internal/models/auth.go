// Package models defines the data types shared across the auth core:
// the persisted session, the user profile snapshot, and the transient
// artifacts of multi-step authentication flows.
package models

import "time"

// Session is an authenticated session as persisted locally: the opaque
// bearer token plus the profile snapshot the identity API returned with it.
// Token and User are always saved and cleared together; a session with only
// one of the two is treated as absent (see credstore).
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// UserProfile is an immutable snapshot of the account as reported by the
// identity API. It is replaced wholesale on refresh, never patched in place.
type UserProfile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Level       int       `json:"level"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PendingRegistration carries the step-1 result of a two-step registration
// to step 2. It lives only in memory and dies with the flow when the user
// completes it or navigates away.
type PendingRegistration struct {
	Identifier string
	Email      string
	VerifiedAt time.Time
}

// PKCESession is the verifier/state pair persisted for the duration of one
// OAuth round trip. It is consumed exactly once when the callback returns
// and must be deleted afterwards regardless of outcome.
type PKCESession struct {
	CodeVerifier string
	State        string
}
