package authgate

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenExpiration() time.Duration
	GetRefreshTokenExpiration() time.Duration
	GetEmailTokenExpiration() time.Duration
	GetRedisURL() string
	GetDatabaseDSN() string
	GetDomainApp() string
	GetBindAddr() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	SigningKey      string
	SigningMethod   string
	Issuer          string
	Audience        []string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	EmailTokenTTL   time.Duration
	RedisURL        string
	DatabaseDSN     string
	DomainApp       string
	BindAddr        string
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig builds an EnvConfig from the environment, loading the given
// .env files first if present. Missing files are not an error.
func LoadConfig(envFiles ...string) *EnvConfig {
	for _, file := range envFiles {
		if file == "" {
			continue
		}
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	return &EnvConfig{
		SigningKey:      envString("JWT_SECRET_KEY", ""),
		SigningMethod:   envString("JWT_ALGORITHM", "HS256"),
		Issuer:          envString("TOKEN_ISSUER", ""),
		Audience:        envList("TOKEN_AUDIENCE"),
		AccessTokenTTL:  time.Duration(envInt("ACCESS_TOKEN_EXPIRY_MINUTES", 60)) * time.Minute,
		RefreshTokenTTL: time.Duration(envInt("REFRESH_TOKEN_EXPIRY_DAYS", 2)) * 24 * time.Hour,
		EmailTokenTTL:   time.Duration(envInt("EMAIL_TOKEN_EXPIRY_SECONDS", 3600)) * time.Second,
		RedisURL:        envString("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseDSN:     envString("DATABASE_DSN", "file::memory:?cache=shared"),
		DomainApp:       envString("DOMAIN_APP", "http://localhost:8978"),
		BindAddr:        envString("BIND_ADDR", ":8978"),
	}
}

func (c *EnvConfig) GetSigningKey() string    { return c.SigningKey }
func (c *EnvConfig) GetSigningMethod() string { return c.SigningMethod }
func (c *EnvConfig) GetIssuer() string        { return c.Issuer }
func (c *EnvConfig) GetAudience() []string    { return c.Audience }

func (c *EnvConfig) GetAccessTokenExpiration() time.Duration  { return c.AccessTokenTTL }
func (c *EnvConfig) GetRefreshTokenExpiration() time.Duration { return c.RefreshTokenTTL }
func (c *EnvConfig) GetEmailTokenExpiration() time.Duration   { return c.EmailTokenTTL }

func (c *EnvConfig) GetRedisURL() string    { return c.RedisURL }
func (c *EnvConfig) GetDatabaseDSN() string { return c.DatabaseDSN }
func (c *EnvConfig) GetDomainApp() string   { return c.DomainApp }
func (c *EnvConfig) GetBindAddr() string    { return c.BindAddr }

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
