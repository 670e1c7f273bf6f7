package rest

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// tokenExpired reads the exp claim of the backend-issued access token.
// Signature verification is the backend's responsibility; the token is only
// inspected locally to detect expiry before a request is attempted.
func (c *Client) tokenExpired(rawToken string) (bool, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(rawToken, claims); err != nil {
		return false, errors.Wrap(err, "ParseUnverified")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false, errors.Wrap(err, "GetExpirationTime")
	}
	if exp == nil {
		return false, nil
	}
	return exp.Time.Before(c.nowTime()), nil
}
