package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "MONGO_DB", "GOOGLE_CLIENT_ID", "GOOGLE_REDIRECT_URI"} {
		// t.Setenv registers the restore, Unsetenv makes the var truly absent
		// so the env-default values apply.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "formforge", cfg.MongoDB)
	assert.Empty(t, cfg.Google.ClientID)
	assert.Equal(t, "http://localhost:8080/v1/auth/google/callback", cfg.Google.RedirectURI)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("REDIS_URI", "redis://cache:6379")
	t.Setenv("GOOGLE_CLIENT_ID", "cid")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURI)
	assert.Equal(t, "cid", cfg.Google.ClientID)
	assert.Equal(t, "https://app.example.com", cfg.CORSAllowedOrigins)
}

func TestAIConfig(t *testing.T) {
	t.Run("disabled without key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		cfg := DefaultAIConfig()
		assert.False(t, cfg.IsEnabled())
	})

	t.Run("enabled with key and model endpoint", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "k")
		t.Setenv("GEMINI_MODEL", "")
		cfg := DefaultAIConfig()
		assert.True(t, cfg.IsEnabled())
		assert.Equal(t, "gemini-2.0-flash", cfg.Model)
		assert.Equal(t,
			"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
			cfg.ModelEndpoint(cfg.Model))
	})
}
