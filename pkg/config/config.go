package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	VectorStore   VectorStoreConfig
	LLM           LLMConfig
	Cache         CacheConfig
	Vectorization VectorizationConfig
	Security      SecurityConfig
	Logger        LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxResultRows int
}

// DatabaseConfig is the metadata store (connections, configs, jobs), not a
// source database registered for vectorization.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type VectorStoreConfig struct {
	RemoteURL      string
	LocalPath      string
	RequestTimeout time.Duration
}

type LLMConfig struct {
	Provider    string
	Temperature float64
	Readonly    bool
	GigaChat    GigaChatConfig
	OpenAI      OpenAIConfig
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	EmbeddingModel     string
	InsecureSkipVerify bool
}

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	Dimensions     int
}

type CacheConfig struct {
	Enabled             bool
	Collection          string
	SimilarityThreshold float64
}

type VectorizationConfig struct {
	BatchSize     int
	MaxTextLength int
	EmbedRetries  int
	SearchLimit   int
}

type SecurityConfig struct {
	TokenSecret    string
	TokenTTL       time.Duration
	CredentialsKey string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// If no .env file was found we continue with plain environment
	// variables (useful for Docker/K8s).

	readTimeout := getIntEnv("SERVER_READ_TIMEOUT", 30)
	writeTimeout := getIntEnv("SERVER_WRITE_TIMEOUT", 30)
	storeTimeout := getIntEnv("VECTOR_STORE_TIMEOUT", 10)
	tokenTTL := getIntEnv("API_TOKEN_TTL_MINUTES", 60)

	return &Config{
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			ReadTimeout:   time.Duration(readTimeout) * time.Second,
			WriteTimeout:  time.Duration(writeTimeout) * time.Second,
			MaxResultRows: getIntEnv("EXECUTE_MAX_ROWS", 1000),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "nlsql"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("DB_MAX_CONNS", 10),
		},
		VectorStore: VectorStoreConfig{
			RemoteURL:      getEnv("VECTOR_STORE_URL", "http://localhost:8000"),
			LocalPath:      getEnv("VECTOR_STORE_PATH", "./data/vectors.db"),
			RequestTimeout: time.Duration(storeTimeout) * time.Second,
		},
		LLM: LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", "gigachat"),
			Temperature: getFloatEnv("LLM_TEMPERATURE", 0.0),
			Readonly:    getBoolEnv("READONLY_MODE", true),
			GigaChat: GigaChatConfig{
				APIKey:             getEnv("GIGACHAT_API_KEY", ""),
				Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
				Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
				EmbeddingModel:     getEnv("GIGACHAT_EMBEDDING_MODEL", "Embeddings"),
				InsecureSkipVerify: getBoolEnv("GIGACHAT_INSECURE_SKIP_VERIFY", true),
			},
			OpenAI: OpenAIConfig{
				APIKey:         getEnv("OPENAI_API_KEY", ""),
				BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
				EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
				Dimensions:     getIntEnv("OPENAI_EMBEDDING_DIMENSIONS", 0),
			},
		},
		Cache: CacheConfig{
			Enabled:             getBoolEnv("CACHE_ENABLED", true),
			Collection:          getEnv("CACHE_COLLECTION", "query_cache"),
			SimilarityThreshold: getFloatEnv("SIMILARITY_THRESHOLD", 0.8),
		},
		Vectorization: VectorizationConfig{
			BatchSize:     getIntEnv("VECTORIZATION_BATCH_SIZE", 50),
			MaxTextLength: getIntEnv("VECTORIZATION_MAX_TEXT_LENGTH", 8000),
			EmbedRetries:  getIntEnv("VECTORIZATION_EMBED_RETRIES", 2),
			SearchLimit:   getIntEnv("SEARCH_LIMIT", 10),
		},
		Security: SecurityConfig{
			TokenSecret:    getEnv("API_TOKEN_SECRET", ""),
			TokenTTL:       time.Duration(tokenTTL) * time.Minute,
			CredentialsKey: getEnv("CREDENTIALS_KEY", "dev-credentials-key-change-in-production"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
