package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestParseBearer(t *testing.T) {
	valid := signToken(t, jwt.MapClaims{
		"sub":      "user-1",
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	tests := []struct {
		name       string
		header     string
		wantUser   string
		wantName   string
		wantErr    bool
	}{
		{"valid token", "Bearer " + valid, "user-1", "alice", false},
		{"missing header", "", "", "", true},
		{"not bearer", "Basic abc", "", "", true},
		{"garbage token", "Bearer not-a-jwt", "", "", true},
		{"wrong secret", "Bearer " + signToken(t, jwt.MapClaims{"sub": "user-1"}, "other"), "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, username, err := parseBearer(tt.header, testSecret)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if userID != tt.wantUser {
				t.Errorf("userID = %q, want %q", userID, tt.wantUser)
			}
			if username != tt.wantName {
				t.Errorf("username = %q, want %q", username, tt.wantName)
			}
		})
	}
}

func TestParseBearerRejectsExpired(t *testing.T) {
	expired := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testSecret)

	if _, _, err := parseBearer("Bearer "+expired, testSecret); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestParseBearerRequiresSubject(t *testing.T) {
	noSub := signToken(t, jwt.MapClaims{"username": "alice"}, testSecret)

	if _, _, err := parseBearer("Bearer "+noSub, testSecret); err == nil {
		t.Error("Expected error for token without subject")
	}
}
