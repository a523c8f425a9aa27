package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}
	conf.applyDefaults()

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.applyDefaults()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	Redis         RedisConfig         `toml:"redis"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`
	Security      Security            `toml:"security"`
	Quota         QuotaConfig         `toml:"quota"`
	Indexing      IndexingConfig      `toml:"indexing"`
}

type Security struct {
	TokenSecret     string `toml:"token_secret"`
	TokenExpireHour int    `toml:"token_expire_hour"`
}

// QuotaConfig carries the defaults assigned to newly created users and
// workspaces. Per-row values override these.
type QuotaConfig struct {
	ContentQuota  int64 `toml:"content_quota"`
	APIDailyQuota int64 `toml:"api_daily_quota"`
}

// IndexingConfig tunes the document-ingestion housekeeping loops.
type IndexingConfig struct {
	RetentionDays    int `toml:"retention_days"`     // finished jobs older than this get purged
	StaleTaskMinutes int `toml:"stale_task_minutes"` // non-terminal tasks idle this long are failed
}

type ObjectStorageDriver struct {
	StaticDomain string    `toml:"static_domain"`
	Driver       string    `toml:"driver"`
	S3           *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

func (c *CoreConfig) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":33033"
	}
	if c.Security.TokenExpireHour <= 0 {
		c.Security.TokenExpireHour = 24
	}
	if c.Quota.ContentQuota <= 0 {
		c.Quota.ContentQuota = 2000
	}
	if c.Quota.APIDailyQuota <= 0 {
		c.Quota.APIDailyQuota = 10000
	}
	if c.Indexing.RetentionDays <= 0 {
		c.Indexing.RetentionDays = 30
	}
	if c.Indexing.StaleTaskMinutes <= 0 {
		c.Indexing.StaleTaskMinutes = 60
	}
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("AAQ_API_SERVICE_ADDRESS")
	c.Security.TokenSecret = os.Getenv("AAQ_TOKEN_SECRET")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("AAQ_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	KeyPrefix string `toml:"key_prefix"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("AAQ_REDIS_ADDR")
	r.Password = os.Getenv("AAQ_REDIS_PASSWORD")
	if dbStr := os.Getenv("AAQ_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("AAQ_API_LOG_LEVEL")
	l.Path = os.Getenv("AAQ_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
