package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	// Redis is optional: without it tasks are not dispatched.
	RedisAddr     string
	RedisPassword string

	// JWT auth is skipped when no public key is configured.
	JWTPublicKey string
	JWTIssuer    string
	JWTAudience  string
	// Empty lets any authenticated caller write.
	JWTWriteRoles []string

	APIPrefix        string
	DefaultListLimit int
	MaxListLimit     int

	ProbeTimeout      time.Duration
	ProbeMaxBytes     int64
	WorkerConcurrency int

	// Empty allows any host. Internal addresses stay refused unless explicitly allowed.
	ProbeAllowedHosts         []string
	ProbeAllowPrivateNetworks bool
}

var required = []string{
	"MARIADB_DSN",
	"MARIADB_MAX_OPEN_CONN",
	"MARIADB_MAX_IDLE_CONNS",
	"MARIADB_CONN_MAX_LIFETIME",
	"SERVER_PORT",
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	v.SetDefault("JWT_ISSUER", "lms")
	v.SetDefault("JWT_AUDIENCE", "stored-images")
	v.SetDefault("API_PREFIX", "/api/image-storage")
	v.SetDefault("DEFAULT_LIST_LIMIT", 50)
	v.SetDefault("MAX_LIST_LIMIT", 0)
	v.SetDefault("PROBE_TIMEOUT", 10)
	v.SetDefault("PROBE_MAX_BYTES", 10*1024*1024)
	v.SetDefault("WORKER_CONCURRENCY", 5)
	v.SetDefault("PROBE_ALLOW_PRIVATE_NETWORKS", false)

	for _, key := range required {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	s := &Settings{
		MariaDBDSN:      v.GetString("MARIADB_DSN"),
		MaxOpenConns:    v.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    v.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      v.GetInt("SERVER_PORT"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		JWTPublicKey: v.GetString("JWT_PUBLIC_KEY"),
		JWTIssuer:    v.GetString("JWT_ISSUER"),
		JWTAudience:  v.GetString("JWT_AUDIENCE"),

		JWTWriteRoles: splitList(v.GetString("JWT_WRITE_ROLES")),

		APIPrefix:        v.GetString("API_PREFIX"),
		DefaultListLimit: v.GetInt("DEFAULT_LIST_LIMIT"),
		MaxListLimit:     v.GetInt("MAX_LIST_LIMIT"),

		ProbeTimeout:      time.Duration(v.GetInt("PROBE_TIMEOUT")) * time.Second,
		ProbeMaxBytes:     v.GetInt64("PROBE_MAX_BYTES"),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),

		ProbeAllowedHosts:         splitList(v.GetString("PROBE_ALLOWED_HOSTS")),
		ProbeAllowPrivateNetworks: v.GetBool("PROBE_ALLOW_PRIVATE_NETWORKS"),
	}

	if s.DefaultListLimit <= 0 {
		return nil, fmt.Errorf("DEFAULT_LIST_LIMIT must be positive, got %d", s.DefaultListLimit)
	}
	if s.MaxListLimit > 0 && s.MaxListLimit < s.DefaultListLimit {
		return nil, fmt.Errorf("MAX_LIST_LIMIT (%d) must be >= DEFAULT_LIST_LIMIT (%d)", s.MaxListLimit, s.DefaultListLimit)
	}

	return s, nil
}

// splitList reads a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
