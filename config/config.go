package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	OSS         OSSConfig         `mapstructure:"oss"`
	OAuth       OAuthConfig       `mapstructure:"oauth"`
	Email       EmailConfig       `mapstructure:"email"`
	Queue       QueueConfig       `mapstructure:"queue"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Membership  MembershipConfig  `mapstructure:"membership"`
	AI          AIConfig          `mapstructure:"ai"`
	ImageSearch ImageSearchConfig `mapstructure:"image_search"`
	Payment     PaymentConfig     `mapstructure:"payment"`
	Upload      UploadConfig      `mapstructure:"upload"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type OAuthConfig struct {
	Github GithubOAuthConfig `mapstructure:"github"`
}

type GithubOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	MailQueue  string `mapstructure:"mail_queue"`
	MaxWorkers int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// MembershipConfig 会员套餐目录，键为套餐名（STANDARD / PREMIUM）
type MembershipConfig struct {
	Plans map[string]PlanConfig `mapstructure:"plans"`
}

type PlanConfig struct {
	QuotaGrant  int    `mapstructure:"quota_grant"`  // 每次升级增加的 AI 生成次数
	Price       int64  `mapstructure:"price"`        // 最小货币单位（如 paise）
	DisplayName string `mapstructure:"display_name"`
}

type AIConfig struct {
	ProjectID      string  `mapstructure:"project_id"`
	Location       string  `mapstructure:"location"`
	Model          string  `mapstructure:"model"`
	Temperature    float32 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

type ImageSearchConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	PerPage        int    `mapstructure:"per_page"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type PaymentConfig struct {
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	Currency      string `mapstructure:"currency"`
	OrderTTLHours int    `mapstructure:"order_ttl_hours"`
}

type UploadConfig struct {
	MaxSize           int64    `mapstructure:"max_size"`           // 最大文件大小（字节）
	AllowedExtensions []string `mapstructure:"allowed_extensions"` // 允许的图片扩展名
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("jwt.expire_hours", 168)
	v.SetDefault("queue.mail_queue", "blogmind:mail")
	v.SetDefault("queue.max_workers", 2)

	// 套餐授予次数固定：STANDARD +10，PREMIUM +25
	v.SetDefault("membership.plans.STANDARD.quota_grant", 10)
	v.SetDefault("membership.plans.STANDARD.price", 49900)
	v.SetDefault("membership.plans.STANDARD.display_name", "Standard")
	v.SetDefault("membership.plans.PREMIUM.quota_grant", 25)
	v.SetDefault("membership.plans.PREMIUM.price", 99900)
	v.SetDefault("membership.plans.PREMIUM.display_name", "Premium")

	v.SetDefault("ai.location", "us-central1")
	v.SetDefault("ai.model", "gemini-2.0-flash-001")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.timeout_seconds", 60)

	v.SetDefault("image_search.endpoint", "https://api.unsplash.com/search/photos")
	v.SetDefault("image_search.per_page", 5)
	v.SetDefault("image_search.timeout_seconds", 15)

	v.SetDefault("payment.currency", "INR")
	v.SetDefault("payment.order_ttl_hours", 24)

	v.SetDefault("upload.max_size", 5*1024*1024)
	v.SetDefault("upload.allowed_extensions", []string{".jpg", ".jpeg", ".png", ".webp", ".gif"})
}

func Load(configPath string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Plan 按名称查找套餐（viper 会把 map 键转成小写）
func (c *MembershipConfig) Plan(name string) (PlanConfig, bool) {
	p, ok := c.Plans[strings.ToLower(name)]
	if !ok || p.QuotaGrant <= 0 {
		return PlanConfig{}, false
	}
	return p, true
}
