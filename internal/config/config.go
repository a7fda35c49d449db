package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// Config 保存进程级配置：内置默认值 → 配置文件 → 环境变量（含 .env）。
// 内容服务与待办服务共用同一份配置，各自读取自己的监听地址。
type Config struct {
	Env      string
	LogLevel string
	Content  ServiceConfig
	Todo     ServiceConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Limits   LimitConfig
	Metrics  MetricsConfig
	// Path 为实际加载的配置文件路径（未找到时为空），供热加载监听使用。
	Path string
}

type ServiceConfig struct {
	HTTPAddr string
}

// DatabaseConfig 描述关系型存储。URL 的 scheme 决定驱动（sqlite / mysql）。
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// URLMasked 隐藏 URL 中的口令，用于日志输出。
func (d DatabaseConfig) URLMasked() string {
	start := 0
	if i := strings.Index(d.URL, "://"); i >= 0 {
		start = i + 3
	}
	at := strings.LastIndex(d.URL, "@")
	if at < start {
		return d.URL
	}
	colon := strings.Index(d.URL[start:at], ":")
	if colon < 0 {
		return d.URL
	}
	return d.URL[:start+colon+1] + "******" + d.URL[at:]
}

type RedisConfig struct {
	Addr     string
	DB       int
	Password string
}

// CORSConfig 跨域策略。默认放开所有来源（显式选择，非疏忽）。
type CORSConfig struct {
	AllowAllOrigins bool
	// 仅在 AllowAllOrigins=false 时生效
	AllowedOrigins []string
}

// LimitConfig 写接口限流（Redis INCR+TTL），默认关闭。
type LimitConfig struct {
	Enable             bool
	MutationsPerMinute int
	Window             time.Duration
}

type MetricsConfig struct {
	Enable bool
}

// Default 返回开发友好的默认配置。
func Default() Config {
	return Config{
		Env:      "dev",
		LogLevel: "info",
		Content:  ServiceConfig{HTTPAddr: "127.0.0.1:8080"},
		Todo:     ServiceConfig{HTTPAddr: "127.0.0.1:8081"},
		Database: DatabaseConfig{URL: "sqlite://topicbook.db", MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute},
		Redis:    RedisConfig{Addr: "127.0.0.1:6379"},
		CORS:     CORSConfig{AllowAllOrigins: true},
		Limits:   LimitConfig{Enable: false, MutationsPerMinute: 120, Window: time.Minute},
		Metrics:  MetricsConfig{Enable: true},
	}
}

// Load 生成配置：默认值，再用工作目录下的 config.yaml/yml/json 覆盖，最后应用环境变量。
// 配置文件解析失败时返回错误；文件不存在不算错误。
func Load() (Config, error) {
	return LoadFrom(FirstExisting("config.yaml", "config.yml", "config.json"))
}

// LoadFrom 与 Load 相同，但使用指定的配置文件路径（为空则跳过文件层）。
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load %s: %w", path, err)
		}
		cfg.Path = path
	}
	// .env 只补充尚未设置的环境变量
	_ = godotenv.Load()
	applyEnv(&cfg, os.Getenv)
	return cfg, nil
}

// applyEnv 用环境变量覆盖配置；DATABASE_URL 与原有部署方式保持一致。
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv("DATABASE_URL")); v != "" {
		cfg.Database.URL = v
	}
	if v := strings.TrimSpace(getenv("CONTENT_HTTP_ADDR")); v != "" {
		cfg.Content.HTTPAddr = v
	}
	if v := strings.TrimSpace(getenv("TODO_HTTP_ADDR")); v != "" {
		cfg.Todo.HTTPAddr = v
	}
	if v := strings.TrimSpace(getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(getenv("REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
	}
	if v := strings.TrimSpace(getenv("LIMITS_ENABLE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Limits.Enable = b
		}
	}
}

// 配置文件格式：YAML 或 JSON。仅非零值会覆盖现有字段。
func loadFromFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var fm fileModel
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else if ext == ".json" || ext == "" {
		if err := json.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else {
		return errors.New("unsupported config file format")
	}
	fm.apply(cfg)
	return nil
}

// --- 配置文件模型与合并逻辑 ---

type fileModel struct {
	Env      string        `yaml:"env" json:"env"`
	LogLevel string        `yaml:"log_level" json:"log_level"`
	Content  *fileService  `yaml:"content" json:"content"`
	Todo     *fileService  `yaml:"todo" json:"todo"`
	Database *fileDatabase `yaml:"database" json:"database"`
	Redis    *fileRedis    `yaml:"redis" json:"redis"`
	CORS     *fileCORS     `yaml:"cors" json:"cors"`
	Limits   *fileLimits   `yaml:"limits" json:"limits"`
	Metrics  *fileMetrics  `yaml:"metrics" json:"metrics"`
}

type fileService struct {
	HTTPAddr string `yaml:"http_addr" json:"http_addr"`
}
type fileDatabase struct {
	URL             string `yaml:"url" json:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
}
type fileRedis struct {
	Addr     string `yaml:"addr" json:"addr"`
	DB       int    `yaml:"db" json:"db"`
	Password string `yaml:"password" json:"password"`
}
type fileCORS struct {
	AllowAllOrigins *bool    `yaml:"allow_all_origins" json:"allow_all_origins"`
	AllowedOrigins  []string `yaml:"allowed_origins" json:"allowed_origins"`
}
type fileLimits struct {
	Enable             *bool  `yaml:"enable" json:"enable"`
	MutationsPerMinute int    `yaml:"mutations_per_minute" json:"mutations_per_minute"`
	Window             string `yaml:"window" json:"window"`
}
type fileMetrics struct {
	Enable *bool `yaml:"enable" json:"enable"`
}

func (fm *fileModel) apply(cfg *Config) {
	if fm.Env != "" {
		cfg.Env = fm.Env
	}
	if fm.LogLevel != "" {
		cfg.LogLevel = fm.LogLevel
	}
	if fm.Content != nil && fm.Content.HTTPAddr != "" {
		cfg.Content.HTTPAddr = fm.Content.HTTPAddr
	}
	if fm.Todo != nil && fm.Todo.HTTPAddr != "" {
		cfg.Todo.HTTPAddr = fm.Todo.HTTPAddr
	}
	if fm.Database != nil {
		if fm.Database.URL != "" {
			cfg.Database.URL = fm.Database.URL
		}
		if fm.Database.MaxOpenConns != 0 {
			cfg.Database.MaxOpenConns = fm.Database.MaxOpenConns
		}
		if fm.Database.MaxIdleConns != 0 {
			cfg.Database.MaxIdleConns = fm.Database.MaxIdleConns
		}
		if fm.Database.ConnMaxLifetime != "" {
			if d, err := time.ParseDuration(fm.Database.ConnMaxLifetime); err == nil {
				cfg.Database.ConnMaxLifetime = d
			}
		}
	}
	if fm.Redis != nil {
		if fm.Redis.Addr != "" {
			cfg.Redis.Addr = fm.Redis.Addr
		}
		if fm.Redis.DB != 0 {
			cfg.Redis.DB = fm.Redis.DB
		}
		if fm.Redis.Password != "" {
			cfg.Redis.Password = fm.Redis.Password
		}
	}
	if fm.CORS != nil {
		if fm.CORS.AllowAllOrigins != nil {
			cfg.CORS.AllowAllOrigins = *fm.CORS.AllowAllOrigins
		}
		if len(fm.CORS.AllowedOrigins) > 0 {
			cfg.CORS.AllowedOrigins = fm.CORS.AllowedOrigins
		}
	}
	if fm.Limits != nil {
		if fm.Limits.Enable != nil {
			cfg.Limits.Enable = *fm.Limits.Enable
		}
		if fm.Limits.MutationsPerMinute != 0 {
			cfg.Limits.MutationsPerMinute = fm.Limits.MutationsPerMinute
		}
		if fm.Limits.Window != "" {
			if d, err := time.ParseDuration(fm.Limits.Window); err == nil {
				cfg.Limits.Window = d
			}
		}
	}
	if fm.Metrics != nil && fm.Metrics.Enable != nil {
		cfg.Metrics.Enable = *fm.Metrics.Enable
	}
}

// FirstExisting 按顺序返回第一个存在的文件路径；若都不存在则返回空字符串。
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
