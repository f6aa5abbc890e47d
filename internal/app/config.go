package app

import (
	"time"

	"github.com/hearthplan/hearthplan-backend/internal/pkg/envutil"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Environment     string
	Version         string
}

func LoadConfig() Config {
	return Config{
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,
		Environment:     envutil.String("APP_ENV", "development"),
		Version:         envutil.String("APP_VERSION", "dev"),
	}
}
