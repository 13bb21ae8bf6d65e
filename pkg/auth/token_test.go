package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verdantmarkets/carbonledger-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "carbonledger-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
		JTI:       "session-1",
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.CompanyID != payload.CompanyID {
		t.Fatalf("company id mismatch: %s", claims.CompanyID)
	}
	if claims.ID != "session-1" {
		t.Fatalf("jti mismatch: %s", claims.ID)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	bad := cfg
	bad.Secret = "someone-else"
	if _, err := ParseAccessToken(bad, signed); err == nil {
		t.Fatal("expected parse with wrong secret to fail")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := testJWTConfig()
	issued := time.Now().Add(-24 * time.Hour)
	signed, err := MintAccessToken(cfg, issued, AccessTokenPayload{
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
		JTI:       "expired-session",
	})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail strict parse")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired error: %v", err)
	}
	if claims.ID != "expired-session" {
		t.Fatalf("jti mismatch: %s", claims.ID)
	}
}

func TestMintAccessToken_RequiresIdentity(t *testing.T) {
	cfg := testJWTConfig()
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{CompanyID: uuid.New()}); err == nil {
		t.Fatal("expected missing user id to error")
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected missing company id to error")
	}
}
