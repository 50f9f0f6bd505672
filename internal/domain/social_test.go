package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSocialLogin_Validate(t *testing.T) {
	ok := SocialLogin{Provider: ProviderGoogle, ID: "123", Name: "Ivan"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid login rejected: %v", err)
	}

	bad := ok
	bad.Provider = "facebook"
	if err := bad.Validate(); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}

	bad = ok
	bad.ID = ""
	if err := bad.Validate(); !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestIdentity_User(t *testing.T) {
	l := SocialLogin{Provider: ProviderVK, ID: "42", Name: "Ivan", Avatar: "http://a/p.png"}
	id := l.Identity(time.Now())
	if id.ID() != "vk:42" {
		t.Errorf("identity id = %q", id.ID())
	}
	u := id.User()
	if u.Avatar == nil || *u.Avatar != "http://a/p.png" {
		t.Errorf("avatar not carried: %+v", u)
	}
	if u.Phone != "" || u.Email != nil {
		t.Errorf("no contact details expected: %+v", u)
	}
}

func TestIdentity_User_Email(t *testing.T) {
	l := SocialLogin{Provider: ProviderGoogle, ID: "g-1", Name: "Anna", Email: " anna@example.com "}
	u := l.Identity(time.Now()).User()
	if u.Phone != "" {
		t.Errorf("email must not fill the phone, got %q", u.Phone)
	}
	if u.Email == nil || *u.Email != "anna@example.com" {
		t.Fatalf("email = %v", u.Email)
	}
	fields := u.ProfileFields()
	if len(fields) != 1 || fields[0].Label != "Email" || fields[0].Value != "anna@example.com" {
		t.Errorf("ProfileFields = %+v", fields)
	}
}
