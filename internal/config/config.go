package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"techgear-support-be/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Keys      APIKeys
	Ai        AIConfig
	Rag       RagConfig
	Support   SupportConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Otel      OtelConfig
}

type AppConfig struct {
	Name               string
	Version            string
	Port               string
	Environment        string
	LogFilePath        string
	WSLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	KnowledgeBaseDir   string
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
	Jina         string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	EmbeddingModel    string
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini", "ollama" or "huggingface"
	LLMModel          string
	Temperature       float64
	MaxTokens         int
}

type RagConfig struct {
	TopK                int
	SimilarityThreshold float64
	RetrievalTimeout    time.Duration
	CompletionTimeout   time.Duration
	RequestTimeout      time.Duration
	EmbeddingCacheTTL   time.Duration
	ChunkSize           int
	ChunkOverlap        int
	IngestTopic         string
	EscalationTopic     string
}

type SupportConfig struct {
	Email           string
	Phone           string
	Hours           string
	Website         string
	EscalationInbox string
	NatsSubject     string
}

type AuthConfig struct {
	APIKeyEnabled    bool
	APIKeys          []string
	JWTSecret        string
	JWTExpiry        time.Duration
	ClientID         string
	ClientSecretHash string
}

type RateLimitConfig struct {
	PerMinute int
	PerHour   int
}

type OtelConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "TechGear Customer Support"),
			Version:            getEnv("APP_VERSION", "1.0.0"),
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WSLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			KnowledgeBaseDir:   getEnv("KNOWLEDGE_BASE_DIR", "data/knowledge_base"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "TechGear Support Bot"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "models/text-embedding-004"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash"),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 1024),
		},
		Rag: RagConfig{
			TopK:                getEnvAsInt("RAG_TOP_K", 3),
			SimilarityThreshold: getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", 0),
			RetrievalTimeout:    getEnvAsDuration("RAG_RETRIEVAL_TIMEOUT", 5*time.Second),
			CompletionTimeout:   getEnvAsDuration("RAG_COMPLETION_TIMEOUT", 30*time.Second),
			RequestTimeout:      getEnvAsDuration("REQUEST_TIMEOUT", 45*time.Second),
			EmbeddingCacheTTL:   getEnvAsDuration("EMBEDDING_CACHE_TTL", 10*time.Minute),
			ChunkSize:           getEnvAsInt("CHUNK_SIZE", 300),
			ChunkOverlap:        getEnvAsInt("CHUNK_OVERLAP", 50),
			IngestTopic:         getEnv("INGEST_TOPIC_NAME", "INGEST_KNOWLEDGE_CHUNK"),
			EscalationTopic:     getEnv("ESCALATION_TOPIC_NAME", "ESCALATION_RAISED"),
		},
		Support: SupportConfig{
			Email:           getEnv("SUPPORT_EMAIL", "support@techgear.com"),
			Phone:           getEnv("SUPPORT_PHONE", "1800-123-4567"),
			Hours:           getEnv("SUPPORT_HOURS", "Monday to Saturday, 9 AM to 6 PM IST"),
			Website:         getEnv("SUPPORT_WEBSITE", "www.techgear.com/support"),
			EscalationInbox: getEnv("ESCALATION_INBOX", ""),
			NatsSubject:     getEnv("ESCALATION_NATS_SUBJECT", "support.escalation_raised"),
		},
		Auth: AuthConfig{
			APIKeyEnabled:    getEnvAsBool("API_KEY_AUTH_ENABLED", false),
			APIKeys:          getEnvAsList("API_KEYS"),
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTExpiry:        getEnvAsDuration("JWT_EXPIRY", time.Hour),
			ClientID:         getEnv("AUTH_CLIENT_ID", ""),
			ClientSecretHash: getEnv("AUTH_CLIENT_SECRET_HASH", ""),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
			PerHour:   getEnvAsInt("RATE_LIMIT_PER_HOUR", 1000),
		},
		Otel: OtelConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "techgear-support-be"),
		},
	}
}

// IsProduction reports whether GO_ENV selects production behaviour
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Contact returns the support channel quoted in escalation replies
func (s SupportConfig) Contact() constant.ContactInfo {
	return constant.ContactInfo{
		Email:   s.Email,
		Phone:   s.Phone,
		Hours:   s.Hours,
		Website: s.Website,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
