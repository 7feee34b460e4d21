package config

import (
	"os"
	"strings"
)

type Config struct {
	MongoURI            string
	PostgresURI         string
	RedisURI            string
	Port                string
	Host                string   // Raw HOST env (e.g. https://backend.padmamangal.app)
	AllowedOrigins      []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	Environment         string   // ENV: production, development, etc.
	UploadDir           string   // Local directory for stored uploads
	DefaultPublicHost   string   // Fallback host for upload URLs when no forwarded headers
	CallAPIKey          string   // Call-token issuer key (insecure default for dev)
	CallAPISecret       string
	CallWSURL           string // Realtime call transport WebSocket URL
	GeoLookupURL        string // IP-based approximate location service
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:5000")

	// CORS: allow multiple origins so the deployed frontend works alongside local dev
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/padmamangal")),
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/padmamangal?sslmode=disable"),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:                getEnv("PORT", "5000"),
		Host:                host,
		AllowedOrigins:      allowedOrigins,
		Environment:         env,
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		DefaultPublicHost:   getEnv("PUBLIC_HOST", "localhost:5000"),
		CallAPIKey:          getEnv("CALL_API_KEY", "devkey"),
		CallAPISecret:       getEnv("CALL_API_SECRET", "secret"),
		CallWSURL:           getEnv("CALL_WS_URL", "ws://localhost:7880"),
		GeoLookupURL:        getEnv("GEO_LOOKUP_URL", "https://ipapi.co"),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
