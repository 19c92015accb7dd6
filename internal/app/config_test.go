package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openmol/chemvault/internal/auth"
	"github.com/openmol/chemvault/internal/services"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)
	require.Equal(t, "chemvault", cfg.Database.Postgres.Database)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "chemvault-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 1440*time.Hour, cfg.Auth.Session.RefreshTTL)
	require.Equal(t, 64, cfg.Auth.Session.RefreshLength)

	require.Equal(t, 72*time.Hour, cfg.Share.TTL)

	require.False(t, cfg.Cleanup.Enabled)
	require.Equal(t, "@every 30m", cfg.Cleanup.Schedule)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 7*24*time.Hour, cfg.Share.TTL)
	require.True(t, cfg.Cleanup.Enabled)
	require.Equal(t, "@hourly", cfg.Cleanup.Schedule)
}

func TestConfigAdapters(t *testing.T) {
	cfg := Config{
		Auth: AuthConfig{
			JWT: JWTSettings{
				Secret: "secret",
				Issuer: "issuer",
				TTL:    30 * time.Minute,
			},
			Session: SessionSettings{
				RefreshTTL:    10 * time.Hour,
				RefreshLength: 32,
			},
		},
		Share: ShareSettings{TTL: 48 * time.Hour},
	}

	jwtCfg := cfg.Auth.JWTServiceConfig()
	require.Equal(t, auth.JWTConfig{
		Secret:         "secret",
		Issuer:         "issuer",
		AccessTokenTTL: 30 * time.Minute,
	}, jwtCfg)

	sessionCfg := cfg.Auth.SessionServiceConfig()
	require.Equal(t, auth.SessionConfig{
		RefreshTokenTTL: 10 * time.Hour,
		RefreshLength:   32,
	}, sessionCfg)

	shareCfg := cfg.Share.ShareServiceConfig()
	require.Equal(t, services.ShareConfig{TTL: 48 * time.Hour}, shareCfg)
}

func TestConfigAdaptersFallback(t *testing.T) {
	var authCfg AuthConfig

	jwtCfg := authCfg.JWTServiceConfig()
	require.Equal(t, auth.DefaultAccessTokenTTL, jwtCfg.AccessTokenTTL)

	sessionCfg := authCfg.SessionServiceConfig()
	require.Equal(t, auth.DefaultRefreshTokenTTL, sessionCfg.RefreshTokenTTL)
	require.Equal(t, 48, sessionCfg.RefreshLength)

	var shareCfg ShareSettings
	require.Equal(t, services.ShareConfig{TTL: services.DefaultShareTTL}, shareCfg.ShareServiceConfig())
}

func TestDatabaseOptions(t *testing.T) {
	cfg := DatabaseConfig{
		Driver: "postgres",
		Postgres: DBAuthConfig{
			Host:     "db.example.com",
			Port:     5433,
			Database: "chemvault",
			Username: "chem",
			Password: "secret",
		},
	}

	opts := cfg.DatabaseOptions()
	require.Equal(t, "postgres", opts.Driver)
	require.Equal(t, "db.example.com", opts.Host)
	require.Equal(t, 5433, opts.Port)
	require.Equal(t, "chemvault", opts.Name)
	require.Equal(t, "chem", opts.User)
	require.Equal(t, "secret", opts.Password)
}
