// Package main mints an admin token for the help text pages.
//
// The token is signed with security.jwt_secret and printed on stdout. Send
// it as a Bearer token or store it in the fieldhelptext_token cookie.
package main

import (
	"fmt"
	"os"
	"strings"

	"fieldhelptext.io/fieldhelptext/internal/api/middleware"
	"fieldhelptext.io/fieldhelptext/internal/config"
)

const (
	defaultUserID   = "admin"
	defaultUsername = "admin"
)

type tokenRequest struct {
	UserID      string
	Username    string
	Permissions []string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "token error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	token, err := mint(cfg.Security, loadTokenRequest(cfg.Security))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func mint(sec config.SecurityConfig, req tokenRequest) (string, error) {
	if len(sec.JWTSecret) < 32 {
		return "", fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	token, _, err := middleware.GenerateToken(middleware.JWTConfig{
		SigningKey: []byte(sec.JWTSecret),
		Issuer:     sec.JWTIssuer,
		ExpiresIn:  sec.TokenTTL,
	}, req.UserID, req.Username, req.Permissions)
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	return token, nil
}

// loadTokenRequest reads TOKEN_USER_ID, TOKEN_USERNAME and a comma separated
// TOKEN_PERMISSIONS. Permissions default to the configured page permission.
func loadTokenRequest(sec config.SecurityConfig) tokenRequest {
	req := tokenRequest{
		UserID:   envOrDefault("TOKEN_USER_ID", defaultUserID),
		Username: envOrDefault("TOKEN_USERNAME", defaultUsername),
	}
	for _, perm := range strings.Split(envOrDefault("TOKEN_PERMISSIONS", sec.Permission), ",") {
		if perm = strings.TrimSpace(perm); perm != "" {
			req.Permissions = append(req.Permissions, perm)
		}
	}
	return req
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
