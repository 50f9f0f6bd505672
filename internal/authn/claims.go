package authn

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

var (
	ErrInvalidJWT         = errors.New("invalid jwt token")
	ErrCredentialMismatch = errors.New("credential does not match identity")
)

// GoogleClaims is the payload of a Google Identity Services ID token.
type GoogleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// ParseGoogleCredential decodes the ID token payload. The signature is not
// checked; the token only has to be well formed.
func ParseGoogleCredential(token string) (GoogleClaims, error) {
	var claims GoogleClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return claims, fmt.Errorf("%w: %v", ErrInvalidJWT, err)
	}
	return claims, nil
}

// CheckCredential validates the login and, when a credential is attached,
// that its subject is the claimed id. Missing name and email are filled
// from the token.
func CheckCredential(login *domain.SocialLogin) error {
	if login.Credential != "" && login.Provider == domain.ProviderGoogle {
		claims, err := ParseGoogleCredential(login.Credential)
		if err != nil {
			return err
		}
		if login.ID == "" {
			login.ID = claims.Subject
		}
		if claims.Subject != login.ID {
			return fmt.Errorf("%w: subject %q, id %q", ErrCredentialMismatch, claims.Subject, login.ID)
		}
		if login.Name == "" {
			login.Name = claims.Name
		}
		if login.Email == "" {
			login.Email = claims.Email
		}
		if login.Avatar == "" {
			login.Avatar = claims.Picture
		}
	}
	return login.Validate()
}
