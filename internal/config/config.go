package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"EbaySync/internal/model"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig            `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig          `mapstructure:"postgres"` // PostgreSQL配置
	Ebay     EbayConfig              `mapstructure:"ebay"`     // eBay应用凭证
	Pipeline PipelineConfig          `mapstructure:"pipeline"` // 流水线配置
	Export   ExportConfig            `mapstructure:"export"`   // CSV导出配置
	Sources  map[string]SourceConfig `mapstructure:"sources"`  // 三个上游接口独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// EbayConfig eBay应用凭证（一次加载、全程只读，供并发运行共享）
type EbayConfig struct {
	ClientID     string `mapstructure:"client_id"`     // OAuth客户端ID
	ClientSecret string `mapstructure:"client_secret"` // OAuth客户端密钥
	AppID        string `mapstructure:"app_id"`        // Finding系接口的应用ID
	Marketplace  string `mapstructure:"marketplace"`   // 市场标识（EBAY_US等）
	OAuthURL     string `mapstructure:"oauth_url"`     // client_credentials令牌端点
	OAuthScope   string `mapstructure:"oauth_scope"`   // 令牌scope
}

// PipelineConfig 流水线配置
type PipelineConfig struct {
	DefaultLimit int `mapstructure:"default_limit"` // 触发接口未传limit时的默认值
	MaxLimit     int `mapstructure:"max_limit"`     // limit上限（防御性封顶）
}

// ExportConfig CSV导出配置
type ExportConfig struct {
	Enabled bool   `mapstructure:"enabled"` // 运行成功后是否导出八表CSV
	Dir     string `mapstructure:"dir"`     // 导出根目录（按run_uuid分子目录）
}

// SourceConfig 单个上游接口的独立配置
type SourceConfig struct {
	BaseURL        string `mapstructure:"base_url"`         // API基础地址
	Timeout        int    `mapstructure:"timeout"`          // 请求超时（秒）
	RetryCount     int    `mapstructure:"retry_count"`      // 限流/瞬时故障重试次数
	RetryBackoffMs int    `mapstructure:"retry_backoff_ms"` // 退避基数（毫秒，指数递增）
	PageSize       int    `mapstructure:"page_size"`        // 单页条数上限
	Proxy          string `mapstructure:"proxy"`            // 代理地址
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）；
// 配置文件缺失时退回默认值+环境变量，方便容器化部署
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml（允许不存在）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	setDefaults()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults 三个上游接口与流水线的默认值
func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("postgres.max_open_conns", 20)
	viper.SetDefault("postgres.max_idle_conns", 5)
	viper.SetDefault("postgres.conn_max_lifetime", "1h")
	viper.SetDefault("ebay.marketplace", "EBAY_US")
	viper.SetDefault("ebay.oauth_url", "https://api.ebay.com/identity/v1/oauth2/token")
	viper.SetDefault("ebay.oauth_scope", "https://api.ebay.com/oauth/api_scope")
	viper.SetDefault("pipeline.default_limit", 50)
	viper.SetDefault("pipeline.max_limit", 1000)
	viper.SetDefault("export.enabled", false)
	viper.SetDefault("export.dir", "./export")
	viper.SetDefault("sources.browse.base_url", "https://api.ebay.com/buy/browse/v1")
	viper.SetDefault("sources.finding.base_url", "https://svcs.ebay.com/services/search/FindingService/v1")
	viper.SetDefault("sources.taxonomy.base_url", "https://api.ebay.com/commerce/taxonomy/v1")
	for _, name := range []string{"browse", "finding", "taxonomy"} {
		viper.SetDefault(fmt.Sprintf("sources.%s.timeout", name), 15)
		viper.SetDefault(fmt.Sprintf("sources.%s.retry_count", name), 3)
		viper.SetDefault(fmt.Sprintf("sources.%s.retry_backoff_ms", name), 500)
		viper.SetDefault(fmt.Sprintf("sources.%s.page_size", name), 50)
	}
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("EBAY_CLIENT_ID"); v != "" {
		cfg.Ebay.ClientID = v
	}
	if v := os.Getenv("EBAY_CLIENT_SECRET"); v != "" {
		cfg.Ebay.ClientSecret = v
	}
	if v := os.Getenv("EBAY_APP_ID"); v != "" {
		cfg.Ebay.AppID = v
	}
	if v := os.Getenv("EBAY_PROXY"); v != "" {
		for name, src := range cfg.Sources {
			src.Proxy = v
			cfg.Sources[name] = src
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
}

// ValidateCredentials 凭证前置校验：任一项为空即配置错误（进程内不再重试）
func (c *Config) ValidateCredentials() error {
	missing := make([]string, 0, 3)
	if c.Ebay.ClientID == "" {
		missing = append(missing, "ebay.client_id")
	}
	if c.Ebay.ClientSecret == "" {
		missing = append(missing, "ebay.client_secret")
	}
	if c.Ebay.AppID == "" {
		missing = append(missing, "ebay.app_id")
	}
	if len(missing) > 0 {
		return &model.ConfigurationError{Fields: missing, Reason: "eBay凭证缺失，检查config.yaml或环境变量"}
	}
	return nil
}

// SourceFor 取指定上游接口的配置，未配置时返回空结构（各字段由调用方兜底）
func (c *Config) SourceFor(name model.SourceType) SourceConfig {
	if src, ok := c.Sources[string(name)]; ok {
		return src
	}
	return SourceConfig{}
}
