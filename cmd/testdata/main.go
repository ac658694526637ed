package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/d4l-data4life/go-svc/pkg/db"
	"github.com/d4l-data4life/go-svc/pkg/logging"
	"github.com/d4l-data4life/go-svc/pkg/standard"

	"github.com/llmcouncil/go-llm-council/pkg/config"
	"github.com/llmcouncil/go-llm-council/pkg/models"
	"github.com/llmcouncil/go-llm-council/pkg/store"
)

func main() {
	// Initialize the environment and logger
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
	standard.Main(addTestData, config.Name+"-testdata", standard.WithPostgres(dbOpts))
}

// addTestData seeds a demo conversation with competing model replies.
func addTestData(_ context.Context, _ string) <-chan struct{} {
	dieEarly := make(chan struct{})
	defer close(dieEarly)

	ctx := context.Background()
	s := store.New(db.Get())

	conv, err := s.CreateConversation(ctx, nil)
	if err != nil {
		logging.LogErrorf(err, "failed creating demo conversation")
		return dieEarly
	}
	user, err := s.AddUserMessage(ctx, conv.ID, "What is the capital of France?")
	if err != nil {
		logging.LogErrorf(err, "failed creating demo user message")
		return dieEarly
	}

	answer := "The capital of France is Paris."
	name := "GPT 4o"
	in, out := 12, 9
	latency := int64(640)
	if _, err := s.AddAssistantMessage(ctx, conv.ID, store.AssistantMessage{
		ModelID:      "gpt-4o",
		ModelName:    &name,
		Content:      &answer,
		TokensInput:  &in,
		TokensOutput: &out,
		LatencyMS:    &latency,
		ParentID:     &user.ID,
	}); err != nil {
		logging.LogErrorf(err, "failed creating demo assistant message")
		return dieEarly
	}

	failure := "connection refused"
	if _, err := s.AddAssistantMessage(ctx, conv.ID, store.AssistantMessage{
		ModelID:  "ollama/llama3.2",
		Error:    &failure,
		ParentID: &user.ID,
	}); err != nil {
		logging.LogErrorf(err, "failed creating demo failed reply")
		return dieEarly
	}

	logging.LogDebugf("seeded demo conversation %s", conv.ID)
	return dieEarly
}
