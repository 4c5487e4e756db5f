package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type (
	// Common is shared by every function.
	Common struct {
		Region   string `env:"REGION,required,notEmpty"`
		Table    string `env:"PRODUCTS_TABLE,required,notEmpty"`
		Endpoint string `env:"AWS_ENDPOINT_URL"`
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	}

	// Issuer configures the upload-url function.
	Issuer struct {
		Common
		Bucket       string        `env:"BUCKET_NAME,required,notEmpty"`
		UploadURLTTL time.Duration `env:"UPLOAD_URL_TTL" envDefault:"1h"`
	}

	// Linker configures the storage-event function. The bucket is read from
	// the notification itself.
	Linker struct {
		Common
	}

	// Lister configures the approved-product listing.
	Lister struct {
		Common
	}

	// Cleanup configures the scheduled janitor.
	Cleanup struct {
		Common
		TopicARN   string        `env:"SNS_TOPIC_ARN,required,notEmpty"`
		StaleAfter time.Duration `env:"STALE_AFTER" envDefault:"1h"`
		MaxDeletes int           `env:"CLEANUP_MAX_DELETES" envDefault:"0"`
	}

	// LocalAPI configures the local HTTP adapter.
	LocalAPI struct {
		Issuer
		HTTPPort     string `env:"HTTP_PORT" envDefault:"8080"`
		DevUserEmail string `env:"DEV_USER_EMAIL,required,notEmpty"`
		AccessKey    string `env:"LOCAL_ACCESS_KEY"`
		SecretKey    string `env:"LOCAL_SECRET_KEY"`
	}
)

// Load reads a .env file when present and parses the environment into T.
func Load[T any]() (*T, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	cfg := new(T)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
