package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"github.com/hirosato/prestacao-contas/backend/internal/api/handlers"
	"github.com/hirosato/prestacao-contas/backend/internal/api/middleware"
	envconfig "github.com/hirosato/prestacao-contas/backend/internal/common/config"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/reconciliation"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
	ddbclient "github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/client"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/repository"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/secrets"
	"github.com/hirosato/prestacao-contas/backend/internal/report"
	"github.com/hirosato/prestacao-contas/backend/pkg/validator"
)

var (
	handler middleware.APIGatewayHandler
	logger  *slog.Logger
)

func init() {
	logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config, err := envconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load Env config: %v", err)
	}

	awscfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	formatter, err := report.NewFormatter(config.Locale)
	if err != nil {
		log.Fatalf("Failed to create formatter: %v", err)
	}

	signingSecret, err := secrets.NewSigningSecretProvider(awscfg, config.AuthSecretID)
	if err != nil {
		log.Fatalf("Failed to create secrets cache: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create zap logger: %v", err)
	}

	// Repositories share one single-table client
	dbClient := ddbclient.NewDynamoDBClientFromConfig(awscfg, logger)
	repos := repository.NewFactory(dbClient, config.DynamoDBTableName, logger)
	v := validator.New()

	roles := role.NewService(repos.RoleRepository(), v)
	servants := servant.NewService(repos.ServantRepository(), v)
	presidents := president.NewService(repos.PresidentRepository(), v)
	records := record.NewService(repos.RecordRepository(), servants, presidents, v)
	reconciler := reconciliation.NewService(records, servants, roles)

	router := handlers.NewRouter(handlers.Services{
		Roles:      roles,
		Servants:   servants,
		Presidents: presidents,
		Records:    records,
		Reports:    report.NewService(reconciler, presidents, formatter),
	})

	handler = middleware.Chain(router.Handle,
		middleware.NewRequestIDMiddleware(),
		middleware.NewLoggingMiddleware(config.Environment == "dev"),
		middleware.NewRecoveryMiddleware(),
		middleware.NewAuthMiddleware(config, signingSecret, zapLogger),
	)
}

func handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return handler(ctx, logger, request)
}

func main() {
	lambda.Start(handle)
}
