package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	DBName      string
	Port        string
	GinMode     string
	CORSOrigins []string

	// Instagram Graph API
	InstagramAccessToken string
	InstagramAPIURL      string
	CrawlPageSize        int

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string

	// Pipeline tuning
	AnalyzeBatchLimit    int
	AnalyzePacing        time.Duration
	TemplateSampleLimit  int
	TemplateExampleLimit int
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/social_templates"),
		DBName:      getEnv("DB_NAME", "social_templates"),
		Port:        getEnv("PORT", "4000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),

		InstagramAccessToken: getEnv("INSTAGRAM_ACCESS_TOKEN", ""),
		InstagramAPIURL:      getEnv("INSTAGRAM_API_URL", "https://graph.instagram.com"),
		CrawlPageSize:        getEnvInt("CRAWL_PAGE_SIZE", 20),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),

		AnalyzeBatchLimit:    getEnvInt("ANALYZE_BATCH_LIMIT", 50),
		AnalyzePacing:        time.Duration(getEnvInt("ANALYZE_PACING_MS", 1000)) * time.Millisecond,
		TemplateSampleLimit:  getEnvInt("TEMPLATE_SAMPLE_LIMIT", 100),
		TemplateExampleLimit: getEnvInt("TEMPLATE_EXAMPLE_LIMIT", 3),
	}

	// Validate required fields
	if cfg.InstagramAccessToken == "" {
		return nil, fmt.Errorf("INSTAGRAM_ACCESS_TOKEN is required - set it in .env file")
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required - set it in .env file")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
