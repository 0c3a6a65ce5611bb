package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	Environment string
	Port        string
	BaseURL     string
	Location    *time.Location

	DBDriver string
	DBDSN    string

	JWTSecret         string
	JWTTTL            time.Duration
	AllowRegistration bool
	CORSOrigins       []string

	UploadDir string

	GSTFlatRate    float64
	InvoiceDueDays int

	LogLevel  string
	LogFormat string

	GeminiAPIKey string

	Company CompanyConfig
}

// CompanyConfig is printed on the header of every document.
type CompanyConfig struct {
	Name    string
	Address string
	GSTIN   string
	Phone   string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	port := getenv("PORT", "8080")
	cfg := Config{
		AppName:           getenv("APP_NAME", "signboard-admin"),
		Environment:       getenv("ENVIRONMENT", "development"),
		Port:              port,
		BaseURL:           strings.TrimRight(getenv("BASE_URL", "http://localhost:"+port), "/"),
		Location:          getenvLocation("TIMEZONE", "Asia/Kolkata"),
		DBDriver:          strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBDSN:             strings.TrimSpace(getenv("DB_DSN", "")),
		JWTSecret:         strings.TrimSpace(getenv("JWT_SECRET", "")),
		JWTTTL:            getenvDuration("JWT_TTL", 24*time.Hour),
		AllowRegistration: getenvBool("ALLOW_REGISTRATION", false),
		CORSOrigins:       getenvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		UploadDir:         getenv("UPLOAD_DIR", "./uploads"),
		GSTFlatRate:       getenvFloat("GST_FLAT_RATE", 18),
		InvoiceDueDays:    getenvInt("INVOICE_DUE_DAYS", 15),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFormat:         getenv("LOG_FORMAT", "json"),
		GeminiAPIKey:      strings.TrimSpace(getenv("GEMINI_API_KEY", "")),
		Company: CompanyConfig{
			Name:    getenv("COMPANY_NAME", "Mudra Signs"),
			Address: getenv("COMPANY_ADDRESS", ""),
			GSTIN:   getenv("COMPANY_GSTIN", ""),
			Phone:   getenv("COMPANY_PHONE", ""),
		},
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getenvList(key string, def []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func getenvLocation(key, def string) *time.Location {
	loc, err := time.LoadLocation(getenv(key, def))
	if err != nil {
		return time.Local
	}
	return loc
}
