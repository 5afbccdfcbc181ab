package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string

	MongoURI      string
	MongoDatabase string

	ObjectStoreType string
	UploadsDir      string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	VisionKey      string
	VisionEndpoint string

	DocIntelKey      string
	DocIntelEndpoint string

	OpenAIKey        string
	OpenAIEndpoint   string
	OpenAIDeployment string
	OpenAIAPIVersion string

	OCRPollAttempts int
	OCRPollInterval time.Duration

	ContextLimit  int
	BatchMaxFiles int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	mongoURI := os.Getenv("MONGODB_URI")

	if env == "production" && mongoURI == "" {
		log.Printf("MONGODB_URI is required in production")
	}

	// Document Intelligence credentials fall back to the Vision resource when
	// both services live under the same Azure account.
	visionKey := getEnv("AZURE_VISION_KEY", "")
	visionEndpoint := trimEndpoint(getEnv("AZURE_VISION_ENDPOINT", ""))

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,

		MongoURI:      mongoURI,
		MongoDatabase: getEnv("MONGODB_DATABASE", "notescan"),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		UploadsDir:      getEnv("UPLOADS_DIR", "./uploads"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		VisionKey:      visionKey,
		VisionEndpoint: visionEndpoint,

		DocIntelKey:      getEnv("AZURE_DOCUMENT_INTELLIGENCE_KEY", visionKey),
		DocIntelEndpoint: trimEndpoint(getEnv("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT", visionEndpoint)),

		OpenAIKey:        getEnv("AZURE_OPENAI_API_KEY", ""),
		OpenAIEndpoint:   trimEndpoint(getEnv("AZURE_OPENAI_ENDPOINT", "")),
		OpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o"),
		OpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-08-01-preview"),

		OCRPollAttempts: getEnvInt("OCR_POLL_ATTEMPTS", 30),
		OCRPollInterval: getEnvDuration("OCR_POLL_INTERVAL", time.Second),

		ContextLimit:  getEnvInt("CONTEXT_LIMIT", 3),
		BatchMaxFiles: getEnvInt("BATCH_MAX_FILES", 20),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func trimEndpoint(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
