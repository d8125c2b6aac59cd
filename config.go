package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir       string
	ContactDBPath string
	Port          string
	SiteURL       string
	JWTSecret     []byte
	SessionSecret []byte
	TokenMaxAge   int // seconds
	LogLevel      string
	Environment   string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config := &Config{}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	config.JWTSecret = []byte(jwtSecret)

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}
	if len(sessionSecret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}
	config.SessionSecret = []byte(sessionSecret)

	config.DataDir = getEnvWithDefault("DATA_DIR", "./data")
	config.ContactDBPath = getEnvWithDefault("CONTACT_DB_PATH", "./contact.db")
	config.Port = getEnvWithDefault("PORT", "8080")
	config.SiteURL = getEnvWithDefault("SITE_URL", "http://localhost:8080")
	config.LogLevel = getEnvWithDefault("LOG_LEVEL", "INFO")
	config.Environment = getEnvWithDefault("ENVIRONMENT", "development")

	maxAge, err := strconv.Atoi(getEnvWithDefault("TOKEN_MAX_AGE", "86400"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_MAX_AGE: %v", err)
	}
	config.TokenMaxAge = maxAge

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func GenerateCSRFToken() (string, error) {
	return GenerateSecureToken(32)
}
