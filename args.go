package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vitrine/api"
)

func ParseArgs() Args {
	// local development: missing .env is fine, deployed instances use real env
	godotenv.Load()

	// server config
	pflag.String("server-url", "0.0.0.0:8080", "")
	pflag.String("site-url", "http://localhost:8080", "")
	pflag.StringSlice("cors-allow-origins", nil, "")

	// oidc config
	pflag.String("oidc-issuer-url", "", "")
	pflag.String("oidc-client-id", "", "")
	pflag.String("oidc-client-secret", "", "")
	pflag.String("oidc-redirect-url", "", "")

	// token config
	pflag.String("auth-issuer", "vitrine", "")
	pflag.String("auth-audience", "vitrine-admin", "")
	pflag.Duration("auth-expire-duration", 12*time.Hour, "")
	pflag.String("auth-private-key-seed", "", "base64 encoded ed25519 seed")

	// s3 config
	pflag.String("s3-endpoint", "", "")
	pflag.String("s3-bucket", "", "")
	pflag.String("s3-public-base-url", "", "")
	pflag.String("s3-access-key-id", "", "")
	pflag.String("s3-secret-access-key", "", "")

	// db config
	pflag.String("db-user", "", "")
	pflag.String("db-password", "", "")
	pflag.String("db-host", "", "")
	pflag.Int("db-port", 5432, "")
	pflag.String("db-database", "", "")
	pflag.String("db-schema", "", "")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 15, "")
	pflag.String("redis-key-prefix", "vitrine-session", "")

	// session config
	pflag.String("session-key-for-cookie", "vitrine-session-id", "")
	pflag.Duration("session-cookie-max-age", 30*24*time.Hour, "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("VITRINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// initial arguments
	return Args{
		ServerURL: viper.GetString("server-url"),
		ServerConfig: api.ServerConfig{
			SiteURL: strings.TrimRight(viper.GetString("site-url"), "/"),
			OIDC: api.OIDCConfig{
				IssuerURL:    viper.GetString("oidc-issuer-url"),
				ClientID:     viper.GetString("oidc-client-id"),
				ClientSecret: viper.GetString("oidc-client-secret"),
				RedirectURL:  viper.GetString("oidc-redirect-url"),
			},
			S3: api.S3Config{
				Endpoint:        viper.GetString("s3-endpoint"),
				Bucket:          viper.GetString("s3-bucket"),
				PublicBaseURL:   viper.GetString("s3-public-base-url"),
				AccessKeyID:     viper.GetString("s3-access-key-id"),
				SecretAccessKey: viper.GetString("s3-secret-access-key"),
			},
			DB: api.DBConfig{
				User:     viper.GetString("db-user"),
				Password: viper.GetString("db-password"),
				Host:     viper.GetString("db-host"),
				Port:     viper.GetInt("db-port"),
				Database: viper.GetString("db-database"),
				Schema:   viper.GetString("db-schema"),
			},
			Redis: api.RedisConfig{
				Addr:      viper.GetString("redis-addr"),
				Password:  viper.GetString("redis-password"),
				DB:        viper.GetInt("redis-db"),
				KeyPrefix: viper.GetString("redis-key-prefix"),
			},
			Auth: api.AuthConfig{
				Issuer:         viper.GetString("auth-issuer"),
				Audience:       viper.GetString("auth-audience"),
				ExpireDuration: viper.GetDuration("auth-expire-duration"),
				PrivateKey:     parsePrivateKeySeed(viper.GetString("auth-private-key-seed")),
			},
			Session: api.SessionConfig{
				KeyForCookie: viper.GetString("session-key-for-cookie"),
				CookieMaxAge: viper.GetDuration("session-cookie-max-age"),
			},
			CORS: api.CORSConfig{
				AllowOrigins: viper.GetStringSlice("cors-allow-origins"),
			},
		},
	}
}

func parsePrivateKeySeed(encoded string) ed25519.PrivateKey {
	seed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil
	}
	return ed25519.NewKeyFromSeed(seed)
}

type Args struct {
	ServerURL    string
	ServerConfig api.ServerConfig
}

func (args Args) Validate() bool {
	return args.ServerURL != "" &&
		args.ServerConfig.SiteURL != "" &&
		args.ServerConfig.OIDC.IssuerURL != "" &&
		args.ServerConfig.OIDC.ClientID != "" &&
		args.ServerConfig.OIDC.ClientSecret != "" &&
		args.ServerConfig.OIDC.RedirectURL != "" &&
		args.ServerConfig.Auth.PrivateKey != nil
}
