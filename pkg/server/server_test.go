package server_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/cors"
	"github.com/stretchr/testify/assert"

	"github.com/llmcouncil/go-llm-council/internal/testutils"
	"github.com/llmcouncil/go-llm-council/pkg/catalog"
	"github.com/llmcouncil/go-llm-council/pkg/chat"
	"github.com/llmcouncil/go-llm-council/pkg/config"
	"github.com/llmcouncil/go-llm-council/pkg/metrics"
	"github.com/llmcouncil/go-llm-council/pkg/models"
	"github.com/llmcouncil/go-llm-council/pkg/server"
	"github.com/llmcouncil/go-llm-council/pkg/store"
	"github.com/llmcouncil/go-llm-council/pkg/usage"
)

// Executed before test runs in this package (fails otherwise)
func TestMain(m *testing.M) {
	config.SetupEnv()
	config.SetupLogger()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	db := models.InitializeTestDB(t)
	s := store.New(db)
	reg := catalog.NewRegistry()

	corsOptions := config.CorsConfig([]string{"localhost"})
	srv := server.NewServer("TEST_SERVER", cors.New(corsOptions), 8, 10*time.Second)
	server.SetupRoutes(srv.Mux(), server.Dependencies{
		DB:           db,
		Store:        s,
		Orchestrator: chat.NewOrchestrator(s, testutils.NewFakeClient(nil), reg),
		Catalog:      reg,
		Usage:        usage.NewService(db, reg),
	})
	metrics.AddBuildInfoMetric()
	return srv
}

func TestEndpointProtection(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		url       string
		protected bool
	}{
		{"Liveness", http.MethodGet, "/checks/liveness", false},
		{"Readiness", http.MethodGet, "/checks/readiness", false},
		{"Metrics", http.MethodGet, "/metrics", false},
		{"Models", http.MethodGet, "/api/v1/chat/models", false},
		{"Conversations", http.MethodGet, "/api/v1/conversations", false},
		{"Usage", http.MethodGet, "/api/v1/usage", false},
	}

	srv := newTestServer(t)

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			request := httptest.NewRequest(test.method, test.url, strings.NewReader(""))
			writer := httptest.NewRecorder()
			srv.Mux().ServeHTTP(writer, request)
			assert.Equal(t, test.protected, writer.Code == http.StatusUnauthorized)
		})
	}
}

func TestChecks(t *testing.T) {
	srv := newTestServer(t)

	for _, url := range []string{"/checks/liveness", "/checks/readiness"} {
		url := url
		t.Run(url, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, url, nil)
			writer := httptest.NewRecorder()
			srv.Mux().ServeHTTP(writer, request)

			assert.Equal(t, http.StatusOK, writer.Code)
			assert.Equal(t, "OK", writer.Body.String())
		})
	}
}

func TestMetrics(t *testing.T) {
	tests := []struct {
		name        string
		metric      string
		value       int
		metricExist bool
		valueMatch  bool
	}{
		{"Golang metrics should exist", "go_memstats_alloc_bytes_total", -1, true, false},
		{"Golang metrics should exist", "go_info", 1, true, true},
		{"Service info metric should exist", "build_info", 1, true, true},
	}

	srv := newTestServer(t)

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/metrics", strings.NewReader(""))
			writer := httptest.NewRecorder()
			srv.Mux().ServeHTTP(writer, request)

			resp := writer.Result()
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			assert.Equal(t, test.metricExist, strings.Contains(string(body), test.metric),
				fmt.Sprintf("Metrics output should contain metric '%s'", test.metric))

			// regexp allows to ignore metric labels
			metricValueRegexp := fmt.Sprintf(`%s(\{.*\})? %d`, test.metric, test.value)
			matched, err := regexp.Match(metricValueRegexp, body)
			if err != nil {
				t.Error(err)
			}
			assert.Equal(t, test.valueMatch, matched,
				fmt.Sprintf("Metrics output should contain metric '%s' with value '%d'", test.metric, test.value))
		})
	}
}

func TestCors(t *testing.T) {
	tests := []struct {
		name                  string
		requestHeaderContent  string
		expectHeaders         bool
		expectedHeader        string
		expectedHeaderContent string
	}{
		{
			name:                  "Access-Control-Allow-Origin header should be present",
			requestHeaderContent:  "localhost",
			expectHeaders:         true,
			expectedHeader:        "Access-Control-Allow-Origin",
			expectedHeaderContent: "localhost",
		},
		{
			name:                  "Access-Control-Allow-Credentials header should be present",
			requestHeaderContent:  "localhost",
			expectHeaders:         true,
			expectedHeader:        "Access-Control-Allow-Credentials",
			expectedHeaderContent: "true",
		},
		{
			name:                  "Origin matches not",
			requestHeaderContent:  "http://evil.example.com",
			expectHeaders:         false,
			expectedHeader:        "Access-Control-Allow-Origin",
			expectedHeaderContent: "localhost",
		},
	}

	srv := newTestServer(t)

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/chat/models", nil)
			request.Header.Set("Origin", test.requestHeaderContent)
			writer := httptest.NewRecorder()

			srv.Mux().ServeHTTP(writer, request)
			if test.expectHeaders {
				assert.Equal(t, test.expectedHeaderContent, writer.Header().Get(test.expectedHeader))
			} else {
				assert.Equal(t, "", writer.Header().Get(test.expectedHeader))
			}
		})
	}
}
