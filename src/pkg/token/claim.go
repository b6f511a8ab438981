package token

import "github.com/golang-jwt/jwt/v5"

// Claim is the bearer token payload issued by the identity service. Only
// Metadata is ours; registered claims (iss, aud, exp) are validated by the
// jwt library during parsing.
type Claim struct {
	Metadata Metadata `json:"metadata"`
	jwt.RegisteredClaims
}

type Metadata struct {
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	IsProvider bool   `json:"is_provider"`
}
