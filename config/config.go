package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Timezone    string `env:"TIMEZONE" envDefault:"Local"`
	HTTP        HTTP
	Storage     Storage
	Postgres    Postgres
	Redis       Redis
	API         API
	Quotes      Quotes
	Telegram    Telegram
	GoogleDrive GoogleDrive
}

type HTTP struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
}

type Storage struct {
	Driver     string        `env:"STORAGE_DRIVER" envDefault:"memory"`
	KeyPrefix  string        `env:"STORAGE_KEY_PREFIX" envDefault:"stocks:"`
	ProfileTTL time.Duration `env:"STORAGE_PROFILE_TTL" envDefault:"24h"`
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"stocks"`
	Password        string `env:"PG_PASSWORD" envDefault:""`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"data/migrations"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type API struct {
	Debug   bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	Finnhub Finnhub
}

type Finnhub struct {
	Url string `env:"FINNHUB_API_URL" envDefault:"https://finnhub.io/api/v1"`
	// An empty token keeps the server up; proxy calls answer 500 until set.
	Token string `env:"FINNHUB_API_KEY" envDefault:""`
}

type Quotes struct {
	StalenessWindow  time.Duration `env:"QUOTES_STALENESS_WINDOW" envDefault:"5m"`
	RefreshInterval  time.Duration `env:"QUOTES_REFRESH_INTERVAL" envDefault:"30s"`
	FetchConcurrency int           `env:"QUOTES_FETCH_CONCURRENCY" envDefault:"8"`
	DailyLogCrontab  string        `env:"QUOTES_DAILY_LOG_CRONTAB" envDefault:"0 * * * *"`
}

type Telegram struct {
	Token            string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout       time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	AllowedChatID    int64         `env:"TELEGRAM_ALLOWED_CHAT_ID" envDefault:"0"`
	FileLimitInBytes int           `env:"TELEGRAM_FILE_LIMIT_IN_BYTES" envDefault:"50000000"`
	ConfirmTimeout   time.Duration `env:"TELEGRAM_CONFIRM_TIMEOUT" envDefault:"2m"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"72h"`
	CleanupInterval time.Duration `env:"GOOGLE_DRIVE_CLEANUP_INTERVAL" envDefault:"6h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves Timezone; unknown names fall back to the process zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
