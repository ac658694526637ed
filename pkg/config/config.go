package config

import (
	"fmt"
	"runtime"

	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/d4l-data4life/go-svc/pkg/logging"
)

// Build information. Populated at build-time.
var (
	Name      string = "llm-council"
	Version   string
	Branch    string
	Commit    string
	BuildUser string
	GoVersion = runtime.Version()
)

// MigrationVersion tracks the schema migration step for the go-svc db layer.
const MigrationVersion = 2

const (
	// EnvPrefix is a prefix to all ENV variables used in this app
	EnvPrefix = "LLM_COUNCIL"
	// APIPrefixV1 URL prefix in API version 1
	APIPrefixV1 = "/api/v1"

	// ##### GENERAL VARIABLES

	// Debug is a flag used to display debug messages
	Debug = false
	// DebugCORS is a flag used to display CORS debug messages
	DebugCORS = false
	// HumanReadableLogs set to true disables JSON formatting of logging
	HumanReadableLogs = false
	// DefaultHost default host for the service
	DefaultHost = "localhost"
	// DefaultPort default port the service is served on
	DefaultPort = "8000"
	// DefaultCorsHosts default cors hosts for local development
	DefaultCorsHosts = "http://localhost:3000 http://localhost:5173"

	// ##### DATABASE VARIABLES

	// DefaultDBHost default host for the database connection
	DefaultDBHost = "localhost"
	// DefaultDBPort default port for the database connection
	DefaultDBPort = "5432"
	// DefaultDBName default name for the database connection
	DefaultDBName = "llm_council"
	// DefaultDBUser default user for the database connection
	DefaultDBUser = "postgres"
	// DefaultDBPassword default password for the database connection
	DefaultDBPassword = "postgres"
	// DefaultDBSSLMode default ssl mode for the database connection
	DefaultDBSSLMode = "disable"

	// ##### CHAT VARIABLES

	// DefaultCancelOnDisconnect cancels in-flight model units when the
	// client session closes; accumulated partials are still persisted.
	DefaultCancelOnDisconnect = true
	// DefaultPricingCacheTTL is how long pricing oracle lookups stay memoized
	DefaultPricingCacheTTL = "15m"
	// DefaultStreamBufferSize is the event channel capacity per turn
	DefaultStreamBufferSize = 64

	// ##### AUTHENTICATION VARIABLES

	// DefaultAuthHeaderName defines the name of the auth header
	DefaultAuthHeaderName = "Authorization"
)

// ErrorMessage defines the type for the errors channel
type ErrorMessage struct {
	Message string
	Err     error
}

func bindEnvVariable(name string, fallback interface{}) {
	if fallback != "" {
		viper.SetDefault(name, fallback)
	}
	err := viper.BindEnv(name)
	if err != nil {
		// cannot use logging.LogError due to import cycle
		fmt.Printf("Error binding Env Variable: %v", err)
	}
}

// SetupEnv configures app to read ENV variables
func SetupEnv() {
	// .env is optional, real environments configure through the process env
	_ = godotenv.Load()

	viper.SetEnvPrefix(EnvPrefix)
	// General
	bindEnvVariable("DEBUG", Debug)
	bindEnvVariable("HUMAN_READABLE_LOGS", HumanReadableLogs)
	bindEnvVariable("DEBUG_CORS", DebugCORS)
	bindEnvVariable("HOST", DefaultHost)
	bindEnvVariable("PORT", DefaultPort)
	bindEnvVariable("CORS_HOSTS", DefaultCorsHosts)
	bindEnvVariable("HTTP_MAX_PARALLEL_REQUESTS", 8)
	bindEnvVariable("HTTP_REQUEST_TIMEOUT", "60s")
	// Database
	bindEnvVariable("DB_HOST", DefaultDBHost)
	bindEnvVariable("DB_PORT", DefaultDBPort)
	bindEnvVariable("DB_NAME", DefaultDBName)
	bindEnvVariable("DB_SCHEMA", "public")
	bindEnvVariable("DB_USER", DefaultDBUser)
	bindEnvVariable("DB_PASS", DefaultDBPassword)
	bindEnvVariable("DB_SSL_MODE", DefaultDBSSLMode)
	bindEnvVariable("DB_SSL_ROOT_CERT_PATH", "")
	// Chat orchestration
	bindEnvVariable("CANCEL_ON_DISCONNECT", DefaultCancelOnDisconnect)
	bindEnvVariable("PRICING_CACHE_TTL", DefaultPricingCacheTTL)
	bindEnvVariable("STREAM_BUFFER_SIZE", DefaultStreamBufferSize)
	// Authentication (empty means the API runs unauthenticated, e.g. locally)
	bindEnvVariable("AUTH_HEADER_NAME", DefaultAuthHeaderName)
	bindEnvVariable("AUTH_JWT_SECRET", "")
	bindEnvVariable("AUTH_JWKS_URL", "")
	// Providers
	bindProviderEnvVariables()
}

// SetupLogger initializes the service-wide logger from the environment
func SetupLogger() {
	logging.Logger(
		logging.ServiceName(Name),
		logging.HumanReadable(viper.GetBool("HUMAN_READABLE_LOGS")),
		logging.Debug(viper.GetBool("DEBUG")),
	)
}

// CorsConfig stores default configuration for CORS middleware
func CorsConfig(corsHosts []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   corsHosts,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Language"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true, // header "Access-Control-Allow-Credentials" is not present if this is set to false
		MaxAge:           300,  // Maximum value not ignored by any of major browsers,
		Debug:            viper.GetBool("DEBUG_CORS"),
	}
}
