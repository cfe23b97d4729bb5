package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string

	// Google OAuth sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendBaseURL    string

	// Comma-separated list of allowed CORS origins; empty means the frontend base URL.
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Real environment variables override .env values.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; env vars alone are a valid setup.
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "insecure-dev-secret-change-me")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "lendtrack-backend")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "insecure-dev-refresh-secret-change-me")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/auth")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            viper.GetString("PGSQL_URL"),
		Port:                   viper.GetString("PORT"),
		IsProduction:           viper.GetBool("IS_PRODUCTION"),
		JWTSecret:              viper.GetString("JWT_SECRET"),
		JWTIssuer:              viper.GetString("JWT_ISSUER"),
		RefreshTokenSecret:     viper.GetString("REFRESH_TOKEN_SECRET"),
		RefreshTokenCookieName: viper.GetString("REFRESH_TOKEN_COOKIE_NAME"),
		RefreshTokenCookiePath: viper.GetString("REFRESH_TOKEN_COOKIE_PATH"),
		GoogleClientID:         viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:     viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:      viper.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:        viper.GetString("FRONTEND_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	refreshExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshExpiry, err := time.ParseDuration(refreshExpiryStr)
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
		log.Printf("Warning: Invalid REFRESH_TOKEN_EXPIRY_DURATION (%q). Defaulting to %s.\n", refreshExpiryStr, refreshExpiry)
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiry

	if cfg.JWTSecret == "insecure-dev-secret-change-me" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	cfg.CORSAllowedOrigins = []string{cfg.FrontendBaseURL}
	if origins := viper.GetStringSlice("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		cfg.CORSAllowedOrigins = origins
	}

	return cfg, nil
}
