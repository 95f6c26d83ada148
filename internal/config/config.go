package config

import (
	"fmt"
	"strings"

	"github.com/freshcart/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	API      APIConfig      `mapstructure:"api"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Promos   []PromoConfig  `mapstructure:"promos"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// StorageConfig 安全存储配置
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite / postgres / redis / memory
	DSN    string `mapstructure:"dsn"`    // sqlite/postgres 连接串
	Secret string `mapstructure:"secret"` // 存储加密密钥，为空时不加密
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// APIConfig 远端接口配置
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Key       string `mapstructure:"key"`
	KeyHeader string `mapstructure:"key_header"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// PricingConfig 结算常量
type PricingConfig struct {
	DeliveryFee    string `mapstructure:"delivery_fee"`
	VATRate        string `mapstructure:"vat_rate"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// PromoConfig 优惠码配置
type PromoConfig struct {
	Code          string `mapstructure:"code"`
	DiscountRate  string `mapstructure:"discount_rate"`
	MinOrderValue string `mapstructure:"min_order_value"`
}

// CatalogConfig 商品缓存配置
type CatalogConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit RateLimitConfig `mapstructure:"login_rate_limit"`
	// HydrationWaitMS 请求等待会话加载的最长时间
	HydrationWaitMS int `mapstructure:"hydration_wait_ms"`
}

// RateLimitConfig 频率限制配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// DefaultPromos 内置优惠码
func DefaultPromos() []PromoConfig {
	return []PromoConfig{
		{Code: "WELCOME10", DiscountRate: "0.10", MinOrderValue: "15"},
		{Code: "FRESH20", DiscountRate: "0.20", MinOrderValue: "40"},
		{Code: "SAVE5", DiscountRate: "0.05", MinOrderValue: "0"},
	}
}

// Load 从 config.yml 加载配置
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")   // 如果从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	setDefaults(v)

	// 环境变量支持 (例如 api.base_url -> API_BASE_URL)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	cfg, err := unmarshal(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Promos) == 0 {
		cfg.Promos = DefaultPromos()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8088")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "./db/secure.db")
	v.SetDefault("storage.secret", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "fc")
	v.SetDefault("api.base_url", "http://127.0.0.1:8080/api")
	v.SetDefault("api.key", "")
	v.SetDefault("api.key_header", "X-API-Key")
	v.SetDefault("api.timeout_ms", 15000)
	v.SetDefault("pricing.delivery_fee", "2.99")
	v.SetDefault("pricing.vat_rate", "0.20")
	v.SetDefault("pricing.currency_symbol", "£")
	v.SetDefault("catalog.cache_ttl_seconds", 60)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 10)
	v.SetDefault("security.hydration_wait_ms", 3000)
}
