package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	Environment        string
	BaseURL            string
	UserID             string
	MockDataPath       string
	UploadDir          string
	WriteRatePerMinute int
	StoreDriver        string
	StoreDSN           string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		BaseURL:            strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		UserID:             getEnv("MARKET_USER_ID", "1"),
		MockDataPath:       getEnv("MOCK_DATA_PATH", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		WriteRatePerMinute: getEnvAsInt("WRITE_RATE_PER_MINUTE", 60),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		StoreDSN:           getEnv("STORE_DSN", ""),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
