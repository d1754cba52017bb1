package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	RoleEntry = "entry"
	RoleExit  = "exit"
)

type Config struct {
	Terminal TerminalConfig
	Camera   CameraConfig
	Actuator ActuatorConfig
	Database DBConfig
	Redis    RedisConfig
	Store    StoreConfig
	Token    TokenConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
}

type TerminalConfig struct {
	ID   string `validate:"required"`
	Role string `validate:"required,oneof=entry exit"`
}

type CameraConfig struct {
	BaseURL      string        `validate:"required,url"`
	Timeout      time.Duration `validate:"gt=0"`
	PollInterval time.Duration `validate:"gte=0"`
	BackoffMin   time.Duration `validate:"gt=0"`
	BackoffMax   time.Duration `validate:"gtefield=BackoffMin"`
}

type ActuatorConfig struct {
	BaseURL        string        `validate:"required,url"`
	Timeout        time.Duration `validate:"gt=0"`
	DisplayEnabled bool
}

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	EventsKey string
}

// StoreConfig bounds every record store call and its retries.
type StoreConfig struct {
	Timeout      time.Duration `validate:"gt=0"`
	MaxAttempts  uint          `validate:"gte=1"`
	RetryInitial time.Duration `validate:"gt=0"`
	RetryMax     time.Duration `validate:"gtefield=RetryInitial"`
}

type TokenConfig struct {
	SecretKey string `validate:"required,len=16|len=24|len=32"`
}

type JWTConfig struct {
	SecretKey string
}

type HTTPConfig struct {
	Port string `validate:"required,numeric"`
}

// Load reads .env (if present) and the environment into a validated Config.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("[CONFIG] Config file not found, using defaults: %v", err)
	}

	cfg := Config{
		Terminal: TerminalConfig{
			ID:   v.GetString("terminal.id"),
			Role: v.GetString("terminal.role"),
		},
		Camera: CameraConfig{
			BaseURL:      v.GetString("camera.base_url"),
			Timeout:      v.GetDuration("camera.timeout"),
			PollInterval: v.GetDuration("camera.poll_interval"),
			BackoffMin:   v.GetDuration("camera.backoff_min"),
			BackoffMax:   v.GetDuration("camera.backoff_max"),
		},
		Actuator: ActuatorConfig{
			BaseURL:        v.GetString("actuator.base_url"),
			Timeout:        v.GetDuration("actuator.timeout"),
			DisplayEnabled: v.GetBool("actuator.display_enabled"),
		},
		Database: DBConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Host:      v.GetString("redis.host"),
			Port:      v.GetString("redis.port"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			EventsKey: v.GetString("redis.events_key"),
		},
		Store: StoreConfig{
			Timeout:      v.GetDuration("store.timeout"),
			MaxAttempts:  v.GetUint("store.max_attempts"),
			RetryInitial: v.GetDuration("store.retry_initial"),
			RetryMax:     v.GetDuration("store.retry_max"),
		},
		Token: TokenConfig{
			SecretKey: v.GetString("token.secret_key"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
		},
		HTTP: HTTPConfig{
			Port: v.GetString("http.port"),
		},
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("terminal.id", "terminal-1")
	v.SetDefault("terminal.role", RoleEntry)

	v.SetDefault("camera.base_url", "http://todamoonentrance.local")
	v.SetDefault("camera.timeout", 5*time.Second)
	v.SetDefault("camera.poll_interval", 100*time.Millisecond)
	v.SetDefault("camera.backoff_min", 1*time.Second)
	v.SetDefault("camera.backoff_max", 30*time.Second)

	v.SetDefault("actuator.base_url", "http://todamoonentrance.local")
	v.SetDefault("actuator.timeout", 2*time.Second)
	v.SetDefault("actuator.display_enabled", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "todamoon")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Minute*5)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.events_key", "queue_events")

	v.SetDefault("store.timeout", 5*time.Second)
	v.SetDefault("store.max_attempts", 3)
	v.SetDefault("store.retry_initial", 200*time.Millisecond)
	v.SetDefault("store.retry_max", 2*time.Second)

	v.SetDefault("token.secret_key", "Todamoon_drivers")
	v.SetDefault("http.port", "8080")
}

func bindEnv(v *viper.Viper) {
	bindings := map[string]string{
		"terminal.id":              "TERMINAL_ID",
		"terminal.role":            "TERMINAL_ROLE",
		"camera.base_url":          "CAMERA_BASE_URL",
		"camera.timeout":           "CAMERA_TIMEOUT",
		"camera.poll_interval":     "CAMERA_POLL_INTERVAL",
		"camera.backoff_min":       "CAMERA_BACKOFF_MIN",
		"camera.backoff_max":       "CAMERA_BACKOFF_MAX",
		"actuator.base_url":        "ACTUATOR_BASE_URL",
		"actuator.timeout":         "ACTUATOR_TIMEOUT",
		"actuator.display_enabled": "ACTUATOR_DISPLAY_ENABLED",
		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.user":            "DATABASE_USER",
		"database.password":        "DATABASE_PASSWORD",
		"database.name":            "DATABASE_NAME",
		"database.ssl_mode":        "DATABASE_SSL_MODE",
		"database.auto_migrate":    "DATABASE_AUTO_MIGRATE",
		"redis.host":               "REDIS_HOST",
		"redis.port":               "REDIS_PORT",
		"redis.password":           "REDIS_PASSWORD",
		"redis.db":                 "REDIS_DB",
		"redis.events_key":         "REDIS_EVENTS_KEY",
		"store.timeout":            "STORE_TIMEOUT",
		"store.max_attempts":       "STORE_MAX_ATTEMPTS",
		"store.retry_initial":      "STORE_RETRY_INITIAL",
		"store.retry_max":          "STORE_RETRY_MAX",
		"token.secret_key":         "TOKEN_SECRET_KEY",
		"jwt.secret_key":           "JWT_SECRET_KEY",
		"http.port":                "PORT",
	}
	for key, env := range bindings {
		v.BindEnv(key, env)
	}
}
