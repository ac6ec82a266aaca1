package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	LogLevel           string
	MaxUploadSizeBytes int64

	// GitHub contents store (the only persistence backend)
	GitHubToken      string
	GitHubUsername   string
	GitHubRepo       string
	GitHubBranch     string
	GitHubAPIBaseURL string

	// Repo prefixes for sales files and SKU images
	DataPrefix   string
	ImagesPrefix string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,

		GitHubToken:      getEnv("GITHUB_TOKEN", ""),
		GitHubUsername:   getEnv("GITHUB_USERNAME", ""),
		GitHubRepo:       getEnv("GITHUB_REPO", ""),
		GitHubBranch:     getEnv("GITHUB_BRANCH", "main"),
		GitHubAPIBaseURL: getEnv("GITHUB_API_BASE_URL", "https://api.github.com"),

		DataPrefix:   getEnv("DATA_PREFIX", "data"),
		ImagesPrefix: getEnv("IMAGES_PREFIX", "images"),
	}

	if Cfg.GitHubToken == "" {
		log.Fatalf("FATAL: GITHUB_TOKEN is required but not set in environment or .env file.")
	}
	if Cfg.GitHubUsername == "" || Cfg.GitHubRepo == "" {
		log.Fatalf("FATAL: GITHUB_USERNAME and GITHUB_REPO are required but not set in environment or .env file.")
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, Store=%s/%s@%s, DataPrefix=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.GitHubUsername, Cfg.GitHubRepo, Cfg.GitHubBranch, Cfg.DataPrefix)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}
