package auth

import (
	"testing"
	"time"
)

func TestIssueAndValidateAccessToken(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	token, err := svc.IssueAccessToken("operator")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("IssueAccessToken() returned empty token")
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.Username != "operator" {
		t.Errorf("Username = %q, want operator", claims.Username)
	}
	if claims.Issuer != "aegisnet" {
		t.Errorf("Issuer = %q, want aegisnet", claims.Issuer)
	}
}

func TestValidateAccessToken_RejectsBadSignature(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	token, err := svc.IssueAccessToken("operator")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	other := NewTokenService([]byte("different-secret"), time.Hour)
	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("ValidateAccessToken() with wrong secret succeeded, want error")
	}
}

func TestValidateAccessToken_RejectsExpired(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), -time.Minute)
	token, err := svc.IssueAccessToken("operator")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatal("ValidateAccessToken() accepted an expired token")
	}
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	if _, err := svc.ValidateAccessToken("not-a-jwt"); err == nil {
		t.Fatal("ValidateAccessToken() accepted a malformed token")
	}
}

func TestAccessTokenTTL(t *testing.T) {
	svc := NewTokenService([]byte("secret"), 45*time.Minute)
	if got := svc.AccessTokenTTL(); got != 45*time.Minute {
		t.Errorf("AccessTokenTTL() = %v, want 45m", got)
	}
}
