package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"

	"github.com/hirosato/prestacao-contas/backend/internal/common/config"
	"github.com/hirosato/prestacao-contas/backend/internal/common/utils"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/secrets"
)

// SecretEnvVar may hold the signing secret instead of --secret.
const SecretEnvVar = "PRESTACAO_SIGNING_SECRET"

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	Subject  string
	Name     string
	Scopes   []string
	TTL      time.Duration
	Issuer   string
	Secret   string
	SecretID string
	Region   string
}

// TokenOutput is the JSON payload of the token command.
type TokenOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Long: `Issue an HS256 bearer token for the API.

The signing secret comes from --secret, the ` + SecretEnvVar + ` variable,
or the Secrets Manager secret named by --secret-id.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "", "token subject (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name of the caller")
	cmd.Flags().StringSliceVar(&opts.Scopes, "scope", []string{utils.ScopeRead}, "granted scopes")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", time.Hour, "token lifetime")
	cmd.Flags().StringVar(&opts.Issuer, "issuer", config.DefaultAuthIssuer, "token issuer")
	cmd.Flags().StringVar(&opts.Secret, "secret", "", "signing secret")
	cmd.Flags().StringVar(&opts.SecretID, "secret-id", "", "Secrets Manager secret holding the signing secret")
	cmd.Flags().StringVar(&opts.Region, "region", config.DefaultAWSRegion, "AWS region for --secret-id")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

// signingSecret is implemented by the secrets providers
type signingSecret interface {
	SigningSecret(ctx context.Context) ([]byte, error)
}

func (o *TokenOptions) provider(ctx context.Context) (signingSecret, error) {
	secret := o.Secret
	if secret == "" {
		secret = os.Getenv(SecretEnvVar)
	}
	if secret != "" {
		return secrets.NewStaticProvider([]byte(secret)), nil
	}
	if o.SecretID == "" {
		return nil, WrapExitError(ExitCommandError, "no signing secret", fmt.Errorf("set --secret, %s or --secret-id", SecretEnvVar))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(o.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return secrets.NewSigningSecretProvider(cfg, o.SecretID)
}

func runToken(rootOpts *RootOptions, opts *TokenOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.TTL <= 0 {
		return WrapExitError(ExitCommandError, "invalid --ttl", fmt.Errorf("%s is not positive", opts.TTL))
	}

	provider, err := opts.provider(ctx)
	if err != nil {
		return err
	}
	secret, err := provider.SigningSecret(ctx)
	if err != nil {
		return err
	}

	token, err := utils.SignJWT(secret, opts.Issuer, opts.Subject, opts.Name, opts.Scopes, opts.TTL)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	rootOpts.logger(cmd).Debug("token issued", "subject", opts.Subject, "scopes", opts.Scopes)

	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), TokenOutput{Token: token, ExpiresAt: time.Now().UTC().Add(opts.TTL)})
	}
	p := &printer{w: cmd.OutOrStdout()}
	p.printf("%s\n", token)
	return p.err
}
