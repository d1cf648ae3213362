package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadCart_Defaults(t *testing.T) {
	cfg, err := LoadCart()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "http://localhost:3333", cfg.APIURL)
	require.Equal(t, 3*time.Second, cfg.APITimeout)
	require.Equal(t, "file", cfg.StorageDriver)
	require.Equal(t, "./data", cfg.StorageDir)
	require.Equal(t, "@RocketShoes:cart", cfg.StorageKey)
	require.Equal(t, 32, cfg.NotificationBuffer)
}

func TestLoadCart_FromEnv(t *testing.T) {
	t.Setenv("ROCKETSHOES_PORT", "9090")
	t.Setenv("ROCKETSHOES_API_TIMEOUT", "750ms")
	t.Setenv("ROCKETSHOES_STORAGE_DRIVER", "redis")
	t.Setenv("ROCKETSHOES_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadCart()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 750*time.Millisecond, cfg.APITimeout)

	opts := cfg.StorageOptions()
	require.Equal(t, "redis", opts.Driver)
	require.Equal(t, "redis://localhost:6379/0", opts.RedisURL)
}

func TestLoadCart_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"ROCKETSHOES_STORAGE_DRIVER": "sqlite"}, `unknown storage driver "sqlite"`},
		{"redis without url", map[string]string{"ROCKETSHOES_STORAGE_DRIVER": "redis"}, "redis url required"},
		{"postgres without url", map[string]string{"ROCKETSHOES_STORAGE_DRIVER": "postgres"}, "database url required"},
		{"relative api url", map[string]string{"ROCKETSHOES_API_URL": "localhost"}, "invalid api url"},
		{"zero buffer", map[string]string{"ROCKETSHOES_NOTIFICATION_BUFFER": "0"}, "notification buffer"},
		{"bad duration", map[string]string{"ROCKETSHOES_API_TIMEOUT": "soon"}, "parsing cart config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadCart()
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadAPI(t *testing.T) {
	cfg, err := LoadAPI()
	require.NoError(t, err)
	require.Equal(t, "3333", cfg.Port)
	require.Empty(t, cfg.DatabaseURL)

	t.Setenv("ROCKETSHOES_API_PORT", "4000")
	t.Setenv("ROCKETSHOES_API_DATABASE_URL", "postgres://localhost/shoes")

	cfg, err = LoadAPI()
	require.NoError(t, err)
	require.Equal(t, "4000", cfg.Port)
	require.Equal(t, "postgres://localhost/shoes", cfg.DatabaseURL)
}
