package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "github.com/thependalorian/buffrhost-sub014/common/config"
)

// Notifier backends.
const (
	NotifierNone  = "none"
	NotifierRedis = "redis"
	NotifierMQTT  = "mqtt"
)

// Config is the buffr-crossproject service configuration, read from the environment.
type Config struct {
	HTTP struct {
		Addr string
	}
	// DBEnabled turns on the platform database (permissions, listing, models).
	// When false the service runs on in-memory repositories.
	DBEnabled bool
	// DBMigrate applies the embedded goose migrations at startup.
	DBMigrate bool
	Database  commoncfg.DatabaseConfig

	RedisEnabled bool
	Redis        commoncfg.RedisConfig

	Log struct {
		Level  string
		Format string
	}

	Projects       []ProjectConfig
	DefaultCountry string

	Notifier struct {
		Backend      string
		Stream       string
		StreamMaxLen int64
		Topic        string
	}
	MQTT commoncfg.MQTTConfig

	JWTSecret     string
	ModelCacheTTL time.Duration
}

// ProjectConfig locates one project's store. DSN wins over URL; with
// neither the project is served from memory.
type ProjectConfig struct {
	Name    string
	DSN     string
	URL     string
	APIKey  string
	Timeout time.Duration
	// Migrate applies the project schema to DSN at startup (local development).
	Migrate bool
}

// DefaultProjects are used when PROJECTS is unset.
var DefaultProjects = []string{"buffr-host", "buffr-pay", "buffr-lend", "buffr-sign"}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.DBMigrate = getEnv("DB_MIGRATE", "false") == "true"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "buffrhost",
		SSLMode:  "disable",
		MaxConns: 20,
		MaxIdle:  5,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.DefaultCountry = strings.ToUpper(getEnv("DEFAULT_COUNTRY", "NA"))
	for _, name := range splitList(getEnv("PROJECTS", strings.Join(DefaultProjects, ","))) {
		cfg.Projects = append(cfg.Projects, loadProject(name))
	}

	cfg.Notifier.Backend = strings.ToLower(getEnv("NOTIFIER", NotifierNone))
	cfg.Notifier.Stream = getEnv("NOTIFIER_STREAM", "buffr:cross-project:events")
	cfg.Notifier.StreamMaxLen = int64(parseInt(getEnv("NOTIFIER_STREAM_MAXLEN", "10000"), 10000))
	cfg.Notifier.Topic = getEnv("NOTIFIER_TOPIC", "buffr/cross-project/events")
	cfg.MQTT = commoncfg.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "buffr-crossproject",
		QoS:      1,
	}
	cfg.MQTT.LoadFromEnv("MQTT")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.ModelCacheTTL = parseDuration(getEnv("MODEL_CACHE_TTL", "5m"), 5*time.Minute)

	return cfg
}

// loadProject reads PROJECT_<NAME>_* where NAME is the upper-cased project
// name with '-' replaced by '_' (buffr-pay -> PROJECT_BUFFR_PAY_DSN).
func loadProject(name string) ProjectConfig {
	prefix := "PROJECT_" + envKey(name) + "_"
	return ProjectConfig{
		Name:    name,
		DSN:     getEnv(prefix+"DSN", ""),
		URL:     getEnv(prefix+"URL", ""),
		APIKey:  getEnv(prefix+"API_KEY", ""),
		Timeout: parseDuration(getEnv(prefix+"TIMEOUT", "10s"), 10*time.Second),
		Migrate: getEnv(prefix+"MIGRATE", "false") == "true",
	}
}

func envKey(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name))
}

func splitList(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[strings.ToLower(p)] {
			continue
		}
		seen[strings.ToLower(p)] = true
		out = append(out, p)
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
