package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          int
	MediaPath     string
	OutputPath    string
	DataPath      string
	DBPath        string
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	CORSOrigins   []string

	// Model services
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIKey     string
	NamingBaseURL string
	NamingModel   string
	NamingAPIKey  string

	// Pipeline
	MaxFrames int

	// Watch mode: process files as they appear under MediaPath
	WatchEnabled bool
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8000"))
	dataPath := getEnv("DATA_PATH", "/data")
	maxFrames, _ := strconv.Atoi(getEnv("MAX_FRAMES", "2"))

	// JWT secret: require explicit setting or generate random
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random JWT secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Sessions will not survive restarts. Set JWT_SECRET env var for persistent sessions.")
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:          port,
		MediaPath:     getEnv("MEDIA_PATH", "/media"),
		OutputPath:    getEnv("OUTPUT_PATH", dataPath+"/renamed"),
		DataPath:      dataPath,
		DBPath:        getEnv("DB_PATH", dataPath+"/medianamer.db"),
		JWTSecret:     jwtSecret,
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		CORSOrigins:   corsOrigins,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		NamingBaseURL: getEnv("NAMING_BASE_URL", "http://localhost:1234/v1"),
		NamingModel:   getEnv("NAMING_MODEL", "google/gemma-3-12b"),
		NamingAPIKey:  os.Getenv("NAMING_API_KEY"),
		MaxFrames:     maxFrames,
		WatchEnabled:  getEnv("WATCH_ENABLED", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
