package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBSSLMode   string
	DBDebug     bool

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	LoginMaxAttempts int64
	LoginLockout     time.Duration

	SeedDemo        bool
	ShutdownTimeout time.Duration
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origins", "http://localhost:3000")

	v.SetDefault("database_url", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "attendance")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_debug", false)

	v.SetDefault("redis_url", "")

	v.SetDefault("meilisearch_host", "")
	v.SetDefault("meili_master_key", "")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_issuer", "college-attendance")
	v.SetDefault("jwt_ttl", 24*time.Hour)

	v.SetDefault("login_max_attempts", 5)
	v.SetDefault("login_lockout", 15*time.Minute)

	v.SetDefault("seed_demo", false)
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:         v.GetString("app_env"),
		Port:           v.GetString("port"),
		AllowedOrigins: splitList(v.GetString("allowed_origins")),

		DatabaseURL: v.GetString("database_url"),
		DBHost:      v.GetString("db_host"),
		DBUser:      v.GetString("db_user"),
		DBPassword:  v.GetString("db_password"),
		DBName:      v.GetString("db_name"),
		DBPort:      v.GetString("db_port"),
		DBSSLMode:   v.GetString("db_sslmode"),
		DBDebug:     v.GetBool("db_debug"),

		RedisURL: v.GetString("redis_url"),

		MeiliSearchHost: v.GetString("meilisearch_host"),
		MeiliMasterKey:  v.GetString("meili_master_key"),

		JWTSecret: v.GetString("jwt_secret"),
		JWTIssuer: v.GetString("jwt_issuer"),
		JWTTTL:    v.GetDuration("jwt_ttl"),

		LoginMaxAttempts: v.GetInt64("login_max_attempts"),
		LoginLockout:     v.GetDuration("login_lockout"),

		SeedDemo:        v.GetBool("seed_demo"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "change-me"
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL: %s", cfg.JWTTTL)
	}
	if cfg.LoginMaxAttempts <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS: %d", cfg.LoginMaxAttempts)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
