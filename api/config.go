package api

import (
	"crypto/ed25519"
	"time"
)

type ServerConfig struct {
	// SiteURL is the public base URL of the storefront, used for absolute
	// sitemap entries.
	SiteURL string

	OIDC    OIDCConfig
	S3      S3Config
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Session SessionConfig
	CORS    CORSConfig
}

type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	// RedirectURL is the callback URL registered with the provider.
	RedirectURL string
}

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Bucket          string
	PublicBaseURL   string
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	KeyPrefix string
}

type AuthConfig struct {
	Issuer         string
	Audience       string
	ExpireDuration time.Duration
	PrivateKey     ed25519.PrivateKey
}

type SessionConfig struct {
	KeyForCookie string
	CookieMaxAge time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}
