package jwt

import (
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 1001, "alice", "access", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken(testSecret, "access", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 1001 {
		t.Fatalf("expected user_id 1001, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username alice, got %s", claims.Username)
	}
}

func TestParseToken_WrongType(t *testing.T) {
	token, err := GenerateToken(testSecret, 1001, "alice", "refresh", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := ParseToken(testSecret, "access", token); err == nil {
		t.Fatal("expected error for mismatched token type")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, 1001, "alice", "access", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := ParseToken([]byte("other-secret"), "access", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testSecret, 1001, "alice", "access", -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := ParseToken(testSecret, "access", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}
