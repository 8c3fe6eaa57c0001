package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, LogLevel string }

type BackendCfg struct {
	BaseURL    string
	Token      string
	TimeoutSec int
}

type ListCfg struct {
	Debounce     time.Duration
	DefaultCount int
	SessionTTL   time.Duration
}

// MirrorCfg selects the offline mirror used by the fuel resource.
// Driver is one of "redis", "postgres" or "none".
type MirrorCfg struct {
	Driver string
	TTL    time.Duration
}

type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

type SecurityCfg struct {
	APIToken string // empty disables the bearer guard
}

type Cfg struct {
	App     AppCfg
	Backend BackendCfg
	List    ListCfg
	Mirror  MirrorCfg
	DB      DBCfg
	Redis   RedisCfg
	Sec     SecurityCfg
}

// Load reads .env (if present) and the process environment. It never exits;
// binaries call MustValidate for the settings they need.
func Load() Cfg {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BACKEND_TIMEOUT_SEC", 20)
	v.SetDefault("LIST_DEBOUNCE_MS", 300)
	v.SetDefault("LIST_DEFAULT_COUNT", 20)
	v.SetDefault("SESSION_IDLE_TTL", "15m")
	v.SetDefault("MIRROR_DRIVER", "redis")
	v.SetDefault("MIRROR_TTL", "168h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")

	cfg := Cfg{
		App: AppCfg{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Backend: BackendCfg{
			BaseURL:    strings.TrimRight(strings.TrimSpace(v.GetString("BACKEND_BASE_URL")), "/"),
			Token:      strings.TrimSpace(v.GetString("BACKEND_TOKEN")),
			TimeoutSec: v.GetInt("BACKEND_TIMEOUT_SEC"),
		},
		List: ListCfg{
			Debounce:     time.Duration(v.GetInt("LIST_DEBOUNCE_MS")) * time.Millisecond,
			DefaultCount: v.GetInt("LIST_DEFAULT_COUNT"),
			SessionTTL:   v.GetDuration("SESSION_IDLE_TTL"),
		},
		Mirror: MirrorCfg{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("MIRROR_DRIVER"))),
			TTL:    v.GetDuration("MIRROR_TTL"),
		},
		DB:    DBCfg{DSN: v.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: v.GetString("REDIS_ADDR")},
		Sec:   SecurityCfg{APIToken: strings.TrimSpace(v.GetString("API_TOKEN"))},
	}
	return cfg
}

// MustValidate fails fast on settings every binary needs.
func (c Cfg) MustValidate() {
	if c.Backend.BaseURL == "" {
		log.Fatal().Msg("BACKEND_BASE_URL is required")
	}
	if c.List.DefaultCount <= 0 {
		log.Fatal().Int("count", c.List.DefaultCount).Msg("LIST_DEFAULT_COUNT must be positive")
	}
	switch c.Mirror.Driver {
	case "redis", "none":
	case "postgres":
		if c.DB.DSN == "" {
			log.Fatal().Msg("DB_DSN is required when MIRROR_DRIVER=postgres")
		}
	default:
		log.Fatal().Str("driver", c.Mirror.Driver).Msg("MIRROR_DRIVER must be redis, postgres or none")
	}
}

// SetupLogging applies LOG_LEVEL to the global zerolog logger.
func SetupLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
}
