package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port string

	MongoHost     string
	MongoUser     string
	MongoPassword string
	MongoDatabase string
	MongoURI      string

	// SessionSecret encrypts session payloads at rest; CookieSecret signs
	// the session-ID cookie. They are independent on purpose.
	SessionSecret string
	CookieSecret  string

	// Backend selectors.
	UserStore    string // mongo | postgres
	SessionStore string // mongo | redis
	ImageSource  string // local | minio

	PostgresDSN   string
	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	PublicDir   string
	TemplateDir string
}

// Load reads configuration from the environment, honoring a .env file if
// one is present in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getenv("PORT", "3000"),

		MongoHost:     getenv("MONGODB_HOST", ""),
		MongoUser:     getenv("MONGODB_USER", ""),
		MongoPassword: getenv("MONGODB_PASSWORD", ""),
		MongoDatabase: getenv("MONGODB_DATABASE", "members"),
		MongoURI:      getenv("MONGODB_URI", ""),

		SessionSecret: getenv("SESSION_SECRET", ""),
		CookieSecret:  getenv("COOKIE_SECRET", ""),

		UserStore:    getenv("USER_STORE", "mongo"),
		SessionStore: getenv("SESSION_STORE", "mongo"),
		ImageSource:  getenv("IMAGE_SOURCE", "local"),

		PostgresDSN:   getenv("POSTGRES_DSN", ""),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "member-images"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",

		PublicDir:   getenv("PUBLIC_DIR", "./public"),
		TemplateDir: getenv("TEMPLATE_DIR", "./web/templates"),
	}
}

// MongoConnString returns the connection string for the hosted cluster.
// MONGODB_URI wins when set; otherwise it is assembled from the host and
// credential parts.
func (c *Config) MongoConnString() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(c.MongoUser), url.QueryEscape(c.MongoPassword), c.MongoHost)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
