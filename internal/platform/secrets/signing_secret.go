package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-secretsmanager-caching-go/v2/secretcache"
)

// SecretGetter reads a secret string by ID. *secretcache.Cache satisfies it.
type SecretGetter interface {
	GetSecretString(secretID string) (string, error)
}

// SigningSecretProvider returns the HMAC key used to sign and verify API tokens.
type SigningSecretProvider struct {
	getter   SecretGetter
	secretID string
	static   []byte
}

// signingSecretData is the JSON layout of the stored secret. A secret that is
// not JSON is used as the key verbatim.
type signingSecretData struct {
	KeyID  string `json:"keyId"`
	Secret string `json:"secret"`
}

// NewSigningSecretProvider creates a provider backed by a Secrets Manager cache
func NewSigningSecretProvider(cfg aws.Config, secretID string) (*SigningSecretProvider, error) {
	secretsClient := secretsmanager.NewFromConfig(cfg)
	cache, err := secretcache.New(
		func(c *secretcache.Cache) {
			c.Client = secretsClient
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secret cache: %w", err)
	}
	return NewProviderWithGetter(cache, secretID), nil
}

// NewProviderWithGetter creates a provider over any secret source
func NewProviderWithGetter(getter SecretGetter, secretID string) *SigningSecretProvider {
	return &SigningSecretProvider{getter: getter, secretID: secretID}
}

// NewStaticProvider creates a provider that always returns secret. Used for
// local runs with AUTH_DISABLED and in tests.
func NewStaticProvider(secret []byte) *SigningSecretProvider {
	return &SigningSecretProvider{static: secret}
}

// SigningSecret returns the current signing key
func (p *SigningSecretProvider) SigningSecret(ctx context.Context) ([]byte, error) {
	if p.static != nil {
		return p.static, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := p.getter.GetSecretString(p.secretID)
	if err != nil {
		return nil, fmt.Errorf("failed to get signing secret: %w", err)
	}
	return parseSecret(raw)
}

func parseSecret(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("signing secret is empty")
	}
	if !strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), nil
	}

	var data signingSecretData
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		return nil, fmt.Errorf("failed to parse signing secret: %w", err)
	}
	if data.Secret == "" {
		return nil, fmt.Errorf("signing secret %q has no secret field", data.KeyID)
	}
	return []byte(data.Secret), nil
}
