package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apperrors "github.com/T-6891/Dementor-API/pkg/errors"
)

// APIKey is a single configured API client credential.
type APIKey struct {
	ClientID    string
	Key         string
	Permissions []string
}

// HasPermission reports whether the key grants the given permission.
func (k APIKey) HasPermission(perm string) bool {
	for _, p := range k.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// API keys, parsed from API_KEYS ("client:key:perm1,perm2;client2:key2")
	APIKeys []APIKey
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "password"),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", "neo4j"),
		APIKeys:       parseAPIKeys(getEnv("API_KEYS", "")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LookupAPIKey returns the APIKey matching the raw key value, if any.
func (c *Config) LookupAPIKey(key string) (APIKey, bool) {
	for _, k := range c.APIKeys {
		if k.Key == key {
			return k, true
		}
	}
	return APIKey{}, false
}

// parseAPIKeys parses "client:key:perm1,perm2;client2:key2" entries.
// Entries without permissions default to read-only. An empty value yields
// a single development key so the API is usable out of the box.
func parseAPIKeys(raw string) []APIKey {
	if raw == "" {
		return []APIKey{{
			ClientID:    "default",
			Key:         "test-api-key",
			Permissions: []string{"read", "write"},
		}}
	}

	var keys []APIKey
	for _, entry := range strings.Split(raw, ";") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		key := APIKey{
			ClientID:    parts[0],
			Key:         parts[1],
			Permissions: []string{"read"},
		}
		if len(parts) > 2 && parts[2] != "" {
			key.Permissions = strings.Split(parts[2], ",")
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return parseAPIKeys("")
	}
	return keys
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
