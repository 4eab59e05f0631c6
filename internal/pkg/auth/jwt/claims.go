package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims accepted by the avatar service. Tokens are
// issued by the CMS; the service only needs to know who is calling.
type Payload struct {
	// StandardClaims carries expiry, issue time and issuer.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the caller's user id (a UUID string).
	ID string `json:"id"`

	// Role is the caller's CMS role, e.g. "subscriber" or "administrator".
	Role string `json:"role"`
}

// IsAdmin reports whether the caller may manage other users' attachments.
func (p *Payload) IsAdmin() bool {
	return p.Role == RoleAdministrator
}
