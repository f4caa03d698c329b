package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims is the subset of the identity provider token the API reads
type IdentityClaims struct {
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Identity returns the caller described by the claims
func (c *IdentityClaims) Identity() Identity {
	return Identity{ID: c.Subject, Email: c.Email, Name: c.Name}
}
