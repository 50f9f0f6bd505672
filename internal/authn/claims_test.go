package authn

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

func signed(t *testing.T, claims GoogleClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestParseGoogleCredential(t *testing.T) {
	token := signed(t, GoogleClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1234", Issuer: "https://accounts.google.com"},
		Email:            "anna@example.com",
		Name:             "Anna",
	})

	claims, err := ParseGoogleCredential(token)
	if err != nil {
		t.Fatalf("ParseGoogleCredential failed: %v", err)
	}
	if claims.Subject != "1234" || claims.Email != "anna@example.com" || claims.Name != "Anna" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := ParseGoogleCredential("not-a-jwt"); !errors.Is(err, ErrInvalidJWT) {
		t.Errorf("expected ErrInvalidJWT, got %v", err)
	}
}

func TestCheckCredential(t *testing.T) {
	token := signed(t, GoogleClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "g-1"},
		Name:             "Token Name",
		Email:            "token@example.com",
	})

	tests := []struct {
		name    string
		login   domain.SocialLogin
		wantErr error
	}{
		{
			name:  "vk without credential",
			login: domain.SocialLogin{Provider: domain.ProviderVK, ID: "42", Name: "Ivan"},
		},
		{
			name:  "google matching credential",
			login: domain.SocialLogin{Provider: domain.ProviderGoogle, ID: "g-1", Name: "Anna", Credential: token},
		},
		{
			name:  "google fills from token",
			login: domain.SocialLogin{Provider: domain.ProviderGoogle, Credential: token},
		},
		{
			name:    "google mismatched subject",
			login:   domain.SocialLogin{Provider: domain.ProviderGoogle, ID: "other", Name: "Anna", Credential: token},
			wantErr: ErrCredentialMismatch,
		},
		{
			name:    "google malformed credential",
			login:   domain.SocialLogin{Provider: domain.ProviderGoogle, ID: "g-1", Name: "Anna", Credential: "x.y"},
			wantErr: ErrInvalidJWT,
		},
		{
			name:    "unknown provider",
			login:   domain.SocialLogin{Provider: "github", ID: "1", Name: "A"},
			wantErr: domain.ErrUnknownProvider,
		},
		{
			name:    "missing name",
			login:   domain.SocialLogin{Provider: domain.ProviderVK, ID: "1"},
			wantErr: domain.ErrInvalidIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			login := tt.login
			err := CheckCredential(&login)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckCredential_FillsFromToken(t *testing.T) {
	token := signed(t, GoogleClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "g-2"},
		Name:             "Token Name",
		Email:            "token@example.com",
		Picture:          "https://example.com/a.png",
	})
	login := domain.SocialLogin{Provider: domain.ProviderGoogle, Credential: token}
	if err := CheckCredential(&login); err != nil {
		t.Fatalf("CheckCredential failed: %v", err)
	}
	if login.ID != "g-2" || login.Name != "Token Name" || login.Email != "token@example.com" || login.Avatar == "" {
		t.Errorf("login not filled from token: %+v", login)
	}
}
