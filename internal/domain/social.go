package domain

import (
	"fmt"
	"strings"
	"time"
)

type Provider string

const (
	ProviderVK     Provider = "vk"
	ProviderGoogle Provider = "google"
)

func (p Provider) Valid() bool {
	return p == ProviderVK || p == ProviderGoogle
}

// SocialLogin is the identity claim posted by the social login widget.
type SocialLogin struct {
	Provider   Provider
	ID         string
	Name       string
	Email      string
	Avatar     string
	Credential string
}

func (l SocialLogin) Validate() error {
	if !l.Provider.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, l.Provider)
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidIdentity)
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidIdentity)
	}
	return nil
}

// SocialAuthResult is the reply to a social login attempt.
type SocialAuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Identity is a user who signed in through an external provider.
type Identity struct {
	Provider    Provider
	ExternalID  string
	Name        string
	Email       string
	Avatar      string
	CreatedAt   time.Time
	LastLoginAt time.Time
}

// IdentityID is the stable key of an identity across providers.
func IdentityID(p Provider, externalID string) string {
	return string(p) + ":" + externalID
}

func (i *Identity) ID() string {
	return IdentityID(i.Provider, i.ExternalID)
}

func (l SocialLogin) Identity(now time.Time) *Identity {
	return &Identity{
		Provider:    l.Provider,
		ExternalID:  strings.TrimSpace(l.ID),
		Name:        strings.TrimSpace(l.Name),
		Email:       strings.TrimSpace(l.Email),
		Avatar:      strings.TrimSpace(l.Avatar),
		CreatedAt:   now,
		LastLoginAt: now,
	}
}

// User renders the identity as a profile.
func (i *Identity) User() *User {
	u := &User{
		ID:       i.ID(),
		Name:     i.Name,
		Position: "Signed in with " + i.Provider.Label(),
	}
	if i.Email != "" {
		email := i.Email
		u.Email = &email
	}
	if i.Avatar != "" {
		avatar := i.Avatar
		u.Avatar = &avatar
	}
	return u
}

func (p Provider) Label() string {
	switch p {
	case ProviderVK:
		return "VK"
	case ProviderGoogle:
		return "Google"
	}
	return string(p)
}
