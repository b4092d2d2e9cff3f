package auth_test

import (
	"testing"
	"time"

	"github.com/r-yvan/healify/internal/auth"
	"github.com/r-yvan/healify/internal/model"
)

const secret = "test-secret"

func testUser() *model.User {
	return &model.User{
		ID:    "uid-1",
		Email: "d@x.com",
		Role:  model.RoleDoctor,
	}
}

func TestTokenRoundtrip(t *testing.T) {
	tok, err := auth.MakeToken(testUser(), secret)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}

	claims, err := auth.ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != "uid-1" {
		t.Errorf("uid mismatch: %s", claims.UserID)
	}
	if claims.Email != "d@x.com" {
		t.Errorf("email mismatch: %s", claims.Email)
	}
	if claims.Role != model.RoleDoctor {
		t.Errorf("role mismatch: %s", claims.Role)
	}
}

func TestTokenExpiry(t *testing.T) {
	tok, err := auth.MakeToken(testUser(), secret)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	claims, err := auth.ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	// expiry should be ~15 min out
	diff := time.Until(claims.ExpiresAt.Time)
	if diff < 14*time.Minute || diff > 16*time.Minute {
		t.Errorf("expected ~15min expiry, got %v", diff)
	}
}

func TestTokenRejection(t *testing.T) {
	tok, _ := auth.MakeToken(testUser(), secret)

	tests := []struct {
		name   string
		raw    string
		secret string
	}{
		{"wrong secret", tok, "other-secret"},
		{"garbage", "not.a.token", secret},
		{"empty", "", secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.ParseToken(tt.raw, tt.secret); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("password stored in the clear")
	}
	if !auth.CheckPassword(hash, "correct horse battery") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestRefreshTokenGeneration(t *testing.T) {
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(raw) != 64 { // 32 bytes hex
		t.Errorf("expected 64 char raw token, got %d", len(raw))
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}
	if auth.HashRefreshToken(raw) != hash {
		t.Error("hash mismatch")
	}
}
