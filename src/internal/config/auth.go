// FILE: src/internal/config/auth.go
package config

import "fmt"

// AuthConfig protects the inspection and clear endpoints
type AuthConfig struct {
	// Authentication type: "none", "basic", "bearer"
	Type string `toml:"type"`

	BasicAuth  *BasicAuthConfig  `toml:"basic_auth"`
	BearerAuth *BearerAuthConfig `toml:"bearer_auth"`
}

type BasicAuthConfig struct {
	Users []BasicAuthUser `toml:"users"`

	// Realm for WWW-Authenticate header
	Realm string `toml:"realm"`
}

type BasicAuthUser struct {
	Username string `toml:"username"`
	// Password hash (bcrypt)
	PasswordHash string `toml:"password_hash"`
}

type BearerAuthConfig struct {
	// Static tokens
	Tokens []string `toml:"tokens"`

	// JWT validation
	JWT *JWTConfig `toml:"jwt"`
}

type JWTConfig struct {
	// HMAC signing key
	SigningKey string `toml:"signing_key"`
	Issuer     string `toml:"issuer"`
	Audience   string `toml:"audience"`
}

func validateAuth(auth *AuthConfig) error {
	if auth == nil {
		return nil
	}

	validTypes := map[string]bool{"none": true, "basic": true, "bearer": true, "": true}
	if !validTypes[auth.Type] {
		return fmt.Errorf("invalid auth type: %s", auth.Type)
	}

	if auth.Type == "basic" && (auth.BasicAuth == nil || len(auth.BasicAuth.Users) == 0) {
		return fmt.Errorf("basic auth type specified but no users configured")
	}

	if auth.Type == "bearer" {
		if auth.BearerAuth == nil {
			return fmt.Errorf("bearer auth type specified but config missing")
		}
		hasJWT := auth.BearerAuth.JWT != nil && auth.BearerAuth.JWT.SigningKey != ""
		if len(auth.BearerAuth.Tokens) == 0 && !hasJWT {
			return fmt.Errorf("bearer auth requires static tokens or a JWT signing key")
		}
	}

	return nil
}
