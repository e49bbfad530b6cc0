package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/hirosato/prestacao-contas/backend/internal/common/config"
	"github.com/hirosato/prestacao-contas/backend/internal/common/utils"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/secrets"
)

var (
	signingSecret *secrets.SigningSecretProvider
	appConfig     *config.Config
	logger        *slog.Logger
)

func init() {
	logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var err error
	appConfig, err = config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load Env config: %v", err)
	}

	// Load AWS configuration
	cfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithRegion(appConfig.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	signingSecret, err = secrets.NewSigningSecretProvider(cfg, appConfig.AuthSecretID)
	if err != nil {
		log.Fatalf("Failed to create secrets cache: %v", err)
	}
}

// handler is the Lambda function handler for API Gateway REST API Request Authorizer
func handler(ctx context.Context, request events.APIGatewayCustomAuthorizerRequestTypeRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	token, err := utils.ExtractBearerToken(utils.HeaderValue(request.Headers, "Authorization"))
	if err != nil {
		logger.Info("Missing or invalid Authorization header", "error", err)
		return generatePolicy("user", "Deny", request.MethodArn, nil), nil
	}

	secret, err := signingSecret.SigningSecret(ctx)
	if err != nil {
		// API Gateway answers 500 when the authorizer fails
		logger.Error("Failed to load signing secret", "error", err)
		return events.APIGatewayCustomAuthorizerResponse{}, fmt.Errorf("signing secret: %w", err)
	}

	claims, err := utils.ParseJWT(token, secret, appConfig.AuthIssuer)
	if err != nil {
		logger.Info("Token validation failed", "error", err)
		return generatePolicy("user", "Deny", request.MethodArn, nil), nil
	}

	authContext := map[string]interface{}{
		"sub":   claims.Subject,
		"name":  claims.Name,
		"scope": strings.Join(claims.Scopes, " "),
		"iss":   claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		authContext["exp"] = fmt.Sprintf("%d", claims.ExpiresAt.Unix())
	}

	// arn:aws:execute-api:{regionId}:{accountId}:{apiId}/{stage}/{httpVerb}/[{resource}]
	arn := fmt.Sprintf("arn:aws:execute-api:%s:%s:%s/%s/%s",
		"*",
		request.RequestContext.AccountID,
		request.RequestContext.APIID,
		request.RequestContext.Stage,
		"*",
	)

	return generatePolicy(claims.Subject, "Allow", arn, authContext), nil
}

// generatePolicy generates an IAM policy for the authorizer response
func generatePolicy(principalID, effect, resource string, context map[string]interface{}) events.APIGatewayCustomAuthorizerResponse {
	authResponse := events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principalID,
	}

	if effect != "" && resource != "" {
		authResponse.PolicyDocument = events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   effect,
					Resource: []string{resource},
				},
			},
		}
	}

	if context != nil {
		authResponse.Context = context
	}

	authResponse.UsageIdentifierKey = principalID

	return authResponse
}

func main() {
	lambda.Start(handler)
}
