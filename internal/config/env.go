package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
	// APIKey guards inbound REST and MCP calls when set.
	APIKey string `envconfig:"API_KEY"`
}

type TaskmasterEnv struct {
	APIURL   string `envconfig:"TASKMASTER_API_URL" required:"true"`
	APIKey   string `envconfig:"TASKMASTER_API_KEY"`
	Timezone string `envconfig:"TASKMASTER_TIMEZONE" default:"UTC"`

	CategoriesTimeout time.Duration `envconfig:"TASKMASTER_CATEGORIES_TIMEOUT" default:"30s"`
	TasksTimeout      time.Duration `envconfig:"TASKMASTER_TASKS_TIMEOUT" default:"60s"`
	FollowUpTimeout   time.Duration `envconfig:"TASKMASTER_FOLLOWUP_TIMEOUT" default:"10s"`
	FollowUpPageSize  int           `envconfig:"TASKMASTER_FOLLOWUP_PAGE_SIZE" default:"20"`

	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	FanOutLimit int           `envconfig:"FANOUT_LIMIT" default:"5"`
	EnrichLimit int           `envconfig:"ENRICH_LIMIT" default:"20"`
}

type DatabaseEnv struct {
	// URL selects the driver by scheme: postgres:// or sqlite://.
	URL string `envconfig:"DATABASE_URL" default:"sqlite://taskdigest.db"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".taskdigest/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"taskdigest/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
}

type Env struct {
	BaseEnv
	TaskmasterEnv
	DatabaseEnv
	StorageEnv
}

const namespace = "TASKDIGEST"

// LoadEnv reads TASKDIGEST_* variables, falling back to the unprefixed names.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (e *BaseEnv) IsLocal() bool {
	return e != nil && e.Env == "local"
}

func (e *TaskmasterEnv) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TASKMASTER_TIMEZONE %q: %w", e.Timezone, err)
	}
	return loc, nil
}

// Driver returns the database/sql driver name and DSN for URL.
func (e *DatabaseEnv) Driver() (driver, dsn string, err error) {
	scheme, rest, ok := strings.Cut(e.URL, "://")
	if !ok {
		return "", "", fmt.Errorf("invalid DATABASE_URL %q: missing scheme", e.URL)
	}
	switch scheme {
	case "postgres", "postgresql":
		return "postgres", e.URL, nil
	case "sqlite", "sqlite3":
		return "sqlite", rest, nil
	default:
		return "", "", fmt.Errorf("invalid DATABASE_URL %q: unsupported scheme %q", e.URL, scheme)
	}
}
