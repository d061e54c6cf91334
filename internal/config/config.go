package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	BaseURL     string `yaml:"base_url"` // optional, used in download URLs
	MaxUploadMB int64  `yaml:"max_upload_mb"`
	MaxImages   int    `yaml:"max_images"` // per upload request
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type QueueConfig struct {
	RedisURL   string        `yaml:"redis_url"` // empty selects inline (synchronous) mode
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	Name       string        `yaml:"name"`
	Workers    int           `yaml:"workers"`     // worker pool size per worker process
	JobTimeout time.Duration `yaml:"job_timeout"` // max composition duration
	ResultTTL  time.Duration `yaml:"result_ttl"`  // job record retention
}

type StorageConfig struct {
	DataDir   string        `yaml:"data_dir"`
	Retention time.Duration `yaml:"retention"` // age after which files are purged
}

type MediaConfig struct {
	FFmpegBin  string `yaml:"ffmpeg_bin"`
	FFprobeBin string `yaml:"ffprobe_bin"`
	YtDlpBin   string `yaml:"ytdlp_bin"`
}

type AdminConfig struct {
	PasswordHash string        `yaml:"password_hash"` // argon2id hash
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // optional; admin tokens fall back to memory
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Queue    QueueConfig    `yaml:"queue"`
	Storage  StorageConfig  `yaml:"storage"`
	Media    MediaConfig    `yaml:"media"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file (optional; defaults apply when it does
// not exist), then lets deployment environment variables override the
// knobs that differ per platform.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// env-only deployment (Railway/Fly style)
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Queue.RedisURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = 500
	}
	if cfg.Server.MaxImages <= 0 {
		cfg.Server.MaxImages = 50
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Queue.Name == "" {
		cfg.Queue.Name = "video_generation"
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 2
	}
	if cfg.Queue.JobTimeout <= 0 {
		cfg.Queue.JobTimeout = 30 * time.Minute
	}
	if cfg.Queue.ResultTTL <= 0 {
		cfg.Queue.ResultTTL = time.Hour
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.Retention <= 0 {
		cfg.Storage.Retention = time.Hour
	}
	if cfg.Media.FFmpegBin == "" {
		cfg.Media.FFmpegBin = "ffmpeg"
	}
	if cfg.Media.FFprobeBin == "" {
		cfg.Media.FFprobeBin = "ffprobe"
	}
	if cfg.Media.YtDlpBin == "" {
		cfg.Media.YtDlpBin = "yt-dlp"
	}
	if cfg.Admin.TokenTTL <= 0 {
		cfg.Admin.TokenTTL = 24 * time.Hour
	}
}

// QueueMode reports whether a broker is configured. Absence of the
// broker address silently selects synchronous mode.
func (c *Config) QueueMode() bool { return c.Queue.RedisURL != "" }
