package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"fieldhelptext.io/fieldhelptext/internal/api/middleware"
	"fieldhelptext.io/fieldhelptext/internal/config"
)

func testSecurity() config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret:  strings.Repeat("k", 32),
		JWTIssuer:  "fieldhelptext",
		Permission: "administer field help text",
		TokenTTL:   time.Hour,
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TOKEN_TEST_KEY", "")
	if got := envOrDefault("TOKEN_TEST_KEY", "fallback"); got != "fallback" {
		t.Fatalf("envOrDefault empty = %q, want fallback", got)
	}

	t.Setenv("TOKEN_TEST_KEY", "  configured  ")
	if got := envOrDefault("TOKEN_TEST_KEY", "fallback"); got != "configured" {
		t.Fatalf("envOrDefault value = %q, want configured", got)
	}
}

func TestLoadTokenRequest_Defaults(t *testing.T) {
	t.Setenv("TOKEN_USER_ID", "")
	t.Setenv("TOKEN_USERNAME", "")
	t.Setenv("TOKEN_PERMISSIONS", "")

	req := loadTokenRequest(testSecurity())
	if req.UserID != defaultUserID || req.Username != defaultUsername {
		t.Fatalf("user = %q/%q, want defaults", req.UserID, req.Username)
	}
	if len(req.Permissions) != 1 || req.Permissions[0] != "administer field help text" {
		t.Fatalf("Permissions = %#v, want configured permission", req.Permissions)
	}
}

func TestLoadTokenRequest_Overrides(t *testing.T) {
	t.Setenv("TOKEN_USER_ID", "u-42")
	t.Setenv("TOKEN_USERNAME", "editor")
	t.Setenv("TOKEN_PERMISSIONS", "access content, administer site configuration,")

	req := loadTokenRequest(testSecurity())
	if req.UserID != "u-42" || req.Username != "editor" {
		t.Fatalf("user = %q/%q, want u-42/editor", req.UserID, req.Username)
	}
	want := []string{"access content", "administer site configuration"}
	if len(req.Permissions) != len(want) || req.Permissions[0] != want[0] || req.Permissions[1] != want[1] {
		t.Fatalf("Permissions = %#v, want %#v", req.Permissions, want)
	}
}

func TestMint_ValidatesWithServerConfig(t *testing.T) {
	sec := testSecurity()
	token, err := mint(sec, tokenRequest{UserID: "u1", Username: "editor", Permissions: []string{sec.Permission}})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := middleware.JWTConfig{SigningKey: []byte(sec.JWTSecret), Issuer: sec.JWTIssuer}.
		ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "editor" || len(claims.Permissions) != 1 {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestMint_RejectsShortSecret(t *testing.T) {
	sec := testSecurity()
	sec.JWTSecret = "short"
	if _, err := mint(sec, tokenRequest{UserID: "u1"}); err == nil {
		t.Fatal("mint with short secret succeeded, want error")
	}
}
