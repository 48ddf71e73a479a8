// Package config loads the service configuration from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the environment-sourced configuration surface. The bucket
// name is left optional here; its absence only fails credential
// issuance, so a deployment without uploads can still serve the rest of
// the API.
type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" env-default:":8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// DatabaseURL empty means the in-memory repository.
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret string `env:"JWT_SECRET" env-default:"dev-secret"`

	S3 S3Config
}

// S3Config carries the blob-store settings.
type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"AWS_REGION" env-default:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"S3_ENDPOINT"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	CDNHost         string `env:"CDN_HOST"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := cleanenv.ReadEnv(&c); err != nil {
		return Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return c, nil
}
