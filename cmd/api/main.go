package main

import (
	"context"
	"strings"

	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/d4l-data4life/go-svc/pkg/db"
	"github.com/d4l-data4life/go-svc/pkg/logging"
	"github.com/d4l-data4life/go-svc/pkg/standard"

	"github.com/llmcouncil/go-llm-council/pkg/auth"
	"github.com/llmcouncil/go-llm-council/pkg/catalog"
	"github.com/llmcouncil/go-llm-council/pkg/chat"
	"github.com/llmcouncil/go-llm-council/pkg/config"
	"github.com/llmcouncil/go-llm-council/pkg/llm"
	"github.com/llmcouncil/go-llm-council/pkg/llm/providers"
	"github.com/llmcouncil/go-llm-council/pkg/metrics"
	"github.com/llmcouncil/go-llm-council/pkg/models"
	"github.com/llmcouncil/go-llm-council/pkg/server"
	"github.com/llmcouncil/go-llm-council/pkg/store"
	"github.com/llmcouncil/go-llm-council/pkg/usage"
)

func main() {
	config.SetupEnv()
	config.SetupLogger()
	dbOpts := db.NewConnection(
		db.WithDebug(viper.GetBool("DEBUG")),
		db.WithHost(viper.GetString("DB_HOST")),
		db.WithPort(viper.GetString("DB_PORT")),
		db.WithDatabaseSchema(viper.GetString("DB_SCHEMA")),
		db.WithDatabaseName(viper.GetString("DB_NAME")),
		db.WithUser(viper.GetString("DB_USER")),
		db.WithPassword(viper.GetString("DB_PASS")),
		db.WithSSLMode(viper.GetString("DB_SSL_MODE")),
		db.WithSSLRootCertPath(viper.GetString("DB_SSL_ROOT_CERT_PATH")),
		db.WithMigrationFunc(models.MigrationFunc),
		db.WithMigrationVersion(config.MigrationVersion),
	)
	standard.Main(mainAPI, config.Name, standard.WithPostgres(dbOpts))
}

// mainAPI contains the main service logic - it must finish on runCtx cancelation!
func mainAPI(runCtx context.Context, svcName string) <-chan struct{} {
	port := viper.GetString("PORT")
	corsOptions := config.CorsConfig(strings.Split(viper.GetString("CORS_HOSTS"), " "))
	srv := server.NewServer(svcName,
		cors.New(corsOptions),
		viper.GetInt("HTTP_MAX_PARALLEL_REQUESTS"),
		viper.GetDuration("HTTP_REQUEST_TIMEOUT"),
	)

	dieEarly := make(chan struct{})

	tokenValidator, err := auth.FromEnv(runCtx)
	if err != nil {
		logging.LogErrorf(err, "failed to initialize token validation")
		close(dieEarly)
		return dieEarly
	}

	conn := db.Get()
	conversationStore := store.New(conn)
	registry := catalog.NewRegistry()
	orchestrator := chat.NewOrchestrator(
		conversationStore,
		llm.NewRouter(registry, providers.NewClient),
		registry,
	)

	server.SetupRoutes(srv.Mux(), server.Dependencies{
		DB:             conn,
		Store:          conversationStore,
		Orchestrator:   orchestrator,
		Catalog:        registry,
		Usage:          usage.NewService(conn, registry),
		TokenValidator: tokenValidator,
	})
	metrics.AddBuildInfoMetric()
	return standard.ListenAndServe(runCtx, srv.Mux(), port)
}
