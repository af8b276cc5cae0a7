package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token fields the client displays.
// The signature is never verified client-side.
type Claims struct {
	Subject   string
	Email     string
	Roles     []string
	ExpiresAt *time.Time
}

// DecodeClaims reads the payload of an access token without verifying it
func DecodeClaims(accessToken string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}

	switch roles := mapClaims["roles"].(type) {
	case []any:
		for _, r := range roles {
			if s, ok := r.(string); ok && s != "" {
				claims.Roles = append(claims.Roles, s)
			}
		}
	case string:
		if roles != "" {
			claims.Roles = append(claims.Roles, roles)
		}
	}
	if role, ok := mapClaims["role"].(string); ok && role != "" {
		claims.Roles = append(claims.Roles, role)
	}

	return claims, nil
}
