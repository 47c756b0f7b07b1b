package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	apperrors "sjsage522/offerwatch/pkg/errors"
)

// Snapshot backends
const (
	SnapshotBackendFile     = "file"
	SnapshotBackendRedis    = "redis"
	SnapshotBackendMemcache = "memcache"
)

// Config represents the application configuration. It is built once at
// startup and passed by value to every component.
type Config struct {
	// Search configuration
	Keywords   []string `env:"KEYWORDS" envSeparator:"," envDefault:"lachs,cheddar,parmesan" validate:"min=1,dive,required"`
	MaxPrice   float64  `env:"MAX_PRICE" envDefault:"5.0" validate:"gt=0"`
	SearchLat  float64  `env:"SEARCH_LAT" envDefault:"52.4669" validate:"gte=-90,lte=90"`
	SearchLng  float64  `env:"SEARCH_LNG" envDefault:"13.4299" validate:"gte=-180,lte=180"`
	SearchSize int      `env:"SEARCH_SIZE" envDefault:"25" validate:"gt=0"`

	// Offer API
	APIURL         string        `env:"OFFER_API_URL" envDefault:"https://www.kaufda.de/webapp/api/slots/offerSearch" validate:"required,url"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	// Telegram configuration
	TelegramToken  string `env:"TELEGRAM_TOKEN" validate:"required_with=TelegramChatID"`
	TelegramChatID string `env:"TELEGRAM_CHAT_ID" validate:"required_with=TelegramToken"`

	// Message configuration
	HighlightPublishers []string `env:"HIGHLIGHT_PUBLISHERS" envSeparator:"," envDefault:"rewe"`
	MessageTitle        string   `env:"MESSAGE_TITLE" envDefault:"Kaufda Offers"`

	// Deduplication
	DedupEnabled    bool   `env:"DEDUP_ENABLED" envDefault:"false"`
	SnapshotBackend string `env:"SNAPSHOT_BACKEND" envDefault:"file" validate:"oneof=file redis memcache"`
	SnapshotPath    string `env:"SNAPSHOT_PATH" envDefault:"last_results.json"`
	SnapshotKey     string `env:"SNAPSHOT_KEY" envDefault:"offerwatch:snapshot" validate:"required"`

	// Redis configuration
	RedisAddr            string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB              int    `env:"REDIS_DB" envDefault:"0"`
	RedisStream          string `env:"REDIS_STREAM"`
	RedisStreamCount     int    `env:"REDIS_STREAM_COUNT" envDefault:"1" validate:"gt=0"`
	RedisStreamMaxLength int    `env:"REDIS_STREAM_MAX_LENGTH" envDefault:"1000" validate:"gt=0"`

	// Memcache configuration
	MemcacheAddr string `env:"MEMCACHE_ADDR" envDefault:"localhost:11211"`

	// Observability
	PushgatewayURL string `env:"PUSHGATEWAY_URL" validate:"omitempty,url"`
	ErrorLogFile   string `env:"ERROR_LOG_FILE"`

	// Environment
	Environment string `env:"OFFERWATCH_ENVIRONMENT" envDefault:"development"`
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, apperrors.NewConfiguration("cannot parse environment", err)
	}

	// CHAT_ID is the older name of TELEGRAM_CHAT_ID
	if cfg.TelegramChatID == "" {
		cfg.TelegramChatID = strings.TrimSpace(os.Getenv("CHAT_ID"))
	}
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.TelegramChatID = strings.TrimSpace(cfg.TelegramChatID)

	cfg.Keywords = normalizeList(cfg.Keywords, false)
	cfg.HighlightPublishers = normalizeList(cfg.HighlightPublishers, true)

	return cfg, nil
}

// normalizeList trims entries, drops blanks and collapses duplicates keeping
// the first occurrence.
func normalizeList(items []string, lower bool) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if lower {
			item = strings.ToLower(item)
		}
		if item != "" {
			out = append(out, item)
		}
	}
	return lo.UniqBy(out, strings.ToLower)
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

// Validate checks every rule and reports all violations at once.
func (c Config) Validate() error {
	var problems []string

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(envName)

	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperrors.NewConfiguration("configuration errors", err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe))
		}
	}

	if c.DedupEnabled && c.SnapshotBackend == SnapshotBackendFile && strings.TrimSpace(c.SnapshotPath) == "" {
		problems = append(problems, "SNAPSHOT_PATH required when DEDUP_ENABLED uses the file backend")
	}

	if len(problems) > 0 {
		return apperrors.NewConfiguration("configuration errors: "+strings.Join(problems, ", "), nil)
	}
	return nil
}

// describe renders a validator failure using env variable names.
func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s list is empty", name)
	case "gt":
		return fmt.Sprintf("%s must be positive, got %v", name, fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s out of range, got %v", name, fe.Value())
	case "required_with":
		return fmt.Sprintf("%s required when %s is set", name, envNameOf(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", name, fe.Value())
	case "required":
		return fmt.Sprintf("%s must not be blank", name)
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func envName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("env"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

func envNameOf(fieldName string) string {
	f, ok := reflect.TypeOf(Config{}).FieldByName(fieldName)
	if !ok {
		return fieldName
	}
	return envName(f)
}
