package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`    // 服务器配置
	Postgres  PostgresConfig  `mapstructure:"postgres"`  // PostgreSQL配置
	Redis     RedisConfig     `mapstructure:"redis"`     // Redis配置（IGDB令牌缓存）
	Twitch    TwitchConfig    `mapstructure:"twitch"`    // Twitch OAuth配置
	IGDB      IGDBConfig      `mapstructure:"igdb"`      // IGDB元数据接口配置
	Admin     AdminConfig     `mapstructure:"admin"`     // 管理端配置
	Recommend RecommendConfig `mapstructure:"recommend"` // 推荐引擎配置
	Analysis  AnalysisConfig  `mapstructure:"analysis"`  // 孤儿分析任务配置
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

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`     // 地址 host:port
	Password string `mapstructure:"password"` // 密码（可空）
	DB       int    `mapstructure:"db"`       // 库编号
}

// TwitchConfig Twitch OAuth client-credentials 配置（IGDB鉴权用）
type TwitchConfig struct {
	ClientID     string `mapstructure:"client_id"`     // 应用Client ID
	ClientSecret string `mapstructure:"client_secret"` // 应用Client Secret
	TokenURL     string `mapstructure:"token_url"`     // 令牌接口地址
}

// IGDBConfig IGDB元数据接口配置
type IGDBConfig struct {
	BaseURL string `mapstructure:"base_url"` // API基础地址
	Timeout int    `mapstructure:"timeout"`  // 请求超时（秒）
	Proxy   string `mapstructure:"proxy"`    // 代理地址（可空）
}

// AdminConfig 管理端配置
type AdminConfig struct {
	Token string `mapstructure:"token"` // 管理接口令牌（X-Admin-Token）
}

// RecommendConfig 推荐引擎配置
type RecommendConfig struct {
	DefaultLimit   int `mapstructure:"default_limit"`   // 按需查询默认返回条数
	CandidateLimit int `mapstructure:"candidate_limit"` // 单次候选集上限
}

// AnalysisConfig 孤儿分析任务配置
type AnalysisConfig struct {
	GameLimit int           `mapstructure:"game_limit"` // 单次分析的游戏数上限
	TopN      int           `mapstructure:"top_n"`      // 每个源游戏取前N条推荐
	TopCount  int           `mapstructure:"top_count"`  // 汇总报告中热门游戏条数
	Timeout   time.Duration `mapstructure:"timeout"`    // 任务整体超时
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TWITCH_CLIENT_ID"); v != "" {
		cfg.Twitch.ClientID = v
	}
	if v := os.Getenv("TWITCH_CLIENT_SECRET"); v != "" {
		cfg.Twitch.ClientSecret = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Admin.Token = v
	}
}

// applyDefaults 兜底默认值（yaml 缺项时保证可运行）
func applyDefaults(cfg *Config) {
	if cfg.Recommend.DefaultLimit <= 0 {
		cfg.Recommend.DefaultLimit = 3
	}
	if cfg.Recommend.CandidateLimit <= 0 {
		cfg.Recommend.CandidateLimit = 1000
	}
	if cfg.Analysis.GameLimit <= 0 {
		cfg.Analysis.GameLimit = 1000
	}
	if cfg.Analysis.TopN <= 0 {
		cfg.Analysis.TopN = 6
	}
	if cfg.Analysis.TopCount <= 0 {
		cfg.Analysis.TopCount = 10
	}
	if cfg.Analysis.Timeout <= 0 {
		cfg.Analysis.Timeout = 10 * time.Minute
	}
	if cfg.Twitch.TokenURL == "" {
		cfg.Twitch.TokenURL = "https://id.twitch.tv/oauth2/token"
	}
	if cfg.IGDB.BaseURL == "" {
		cfg.IGDB.BaseURL = "https://api.igdb.com/v4"
	}
	if cfg.IGDB.Timeout <= 0 {
		cfg.IGDB.Timeout = 10
	}
}
