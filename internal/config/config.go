package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all service configuration, read from the environment
type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	MongoURI string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" env-default:"formforge"`
	RedisURI string `env:"REDIS_URI" env-default:"localhost:6379"`

	JWTSecret     string `env:"JWT_SECRET" env-default:"change-me-in-production"`
	AdminUsername string `env:"ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" env-default:"admin"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`

	Google GoogleConfig
}

// GoogleConfig holds the OAuth client used for Forms export
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `env:"GOOGLE_REDIRECT_URI" env-default:"http://localhost:8080/v1/auth/google/callback"`
}

// New loads configuration from the environment. A .env file is picked up
// when present but is not required outside local development.
func New() (*Config, error) {
	_ = godotenv.Load()

	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
