package api

import (
	"crypto"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenCookie is the cookie carrying the signed back-office token.
const AccessTokenCookie = "access_token"

// AdminToken is the claim set minted after a successful OIDC login of a
// whitelisted administrator.
type AdminToken struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseAndValidateToken checks the signature and the registered claims of a
// back-office token. Issuer and audience must match what this server mints;
// a token without an expiry is rejected outright.
func ParseAndValidateToken(tokenString string, secret crypto.Signer, issuer, audience string) (*AdminToken, error) {
	const op = "ParseAndValidateToken"
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AdminToken{},
		func(token *jwt.Token) (interface{}, error) {
			return secret.Public(), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*AdminToken)
	if !ok {
		return nil, fmt.Errorf("%s: token claims are invalid", op)
	}
	return claims, nil
}
