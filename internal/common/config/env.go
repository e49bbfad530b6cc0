package config

import (
	"errors"
	"os"
	"strconv"
)

// Defaults for optional variables
const (
	DefaultEnvironment  = "dev"
	DefaultAWSRegion    = "sa-east-1"
	DefaultLocale       = "pt-BR"
	DefaultAuthSecretID = "prestacao/api-signing-secret"
	DefaultAuthIssuer   = "https://auth.prestacao.local"
)

// Config represents the application configuration
type Config struct {
	// AWS-specific configuration
	AWSRegion         string
	DynamoDBTableName string

	// Environment info
	Environment string

	// Locale used when rendering money in reports, e.g. "pt-BR"
	Locale string

	// Bearer token verification
	AuthSecretID string
	AuthIssuer   string
	AuthDisabled bool

	// Lambda detection flag (cached)
	isLambda bool
}

// LoadFromEnv loads the configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}

	// Required environment variables
	cfg.DynamoDBTableName = os.Getenv("DYNAMODB_TABLE_NAME")
	if cfg.DynamoDBTableName == "" {
		return nil, errors.New("DYNAMODB_TABLE_NAME environment variable is required")
	}

	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}

	cfg.AWSRegion = os.Getenv("AWS_REGION")
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = DefaultAWSRegion
	}

	cfg.Locale = os.Getenv("LOCALE")
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}

	cfg.AuthSecretID = os.Getenv("AUTH_SECRET_ID")
	if cfg.AuthSecretID == "" {
		cfg.AuthSecretID = DefaultAuthSecretID
	}

	cfg.AuthIssuer = os.Getenv("AUTH_ISSUER")
	if cfg.AuthIssuer == "" {
		cfg.AuthIssuer = DefaultAuthIssuer
	}

	if v := os.Getenv("AUTH_DISABLED"); v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("AUTH_DISABLED must be a boolean")
		}
		cfg.AuthDisabled = disabled
	}

	if cfg.AuthDisabled && cfg.IsProd() {
		return nil, errors.New("AUTH_DISABLED is not allowed in prod")
	}

	cfg.isLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsLambda returns true if the application is running in AWS Lambda
func (c *Config) IsLambda() bool {
	return c.isLambda
}
