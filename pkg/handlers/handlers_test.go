package handlers

import (
	"os"
	"testing"

	"github.com/llmcouncil/go-llm-council/pkg/config"
)

// Executed before test runs in this package (fails otherwise)
func TestMain(m *testing.M) {
	config.SetupEnv()
	config.SetupLogger()
	os.Exit(m.Run())
}
