package auth

import "errors"

// ErrAccessDenied marks a request for a business the caller has no access to.
// It is an expected outcome, not a failure: handlers map it to 403 while an
// empty business still yields a report.
var ErrAccessDenied = errors.New("access denied")

// UserClaims is the identity the API gateway forwards with each request after
// verifying the caller's token.
type UserClaims struct {
	UserID     string
	BusinessID string
}

// Checker decides whether a user may act on a business. The current rule is a
// direct claim comparison; it exists as a type so the decision stays in one
// place.
type Checker struct{}

func NewChecker() *Checker {
	return &Checker{}
}

// HasBusinessAccess reports whether the business id on the user's claims
// grants access to the requested business.
func (c *Checker) HasBusinessAccess(userBusinessID, businessID string) bool {
	return userBusinessID != "" && userBusinessID == businessID
}
