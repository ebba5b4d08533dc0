package config

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type HTTPServer struct {
	Addr         string        `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
	PublicURL    string        `yaml:"public_url" env:"PUBLIC_URL" env-default:"http://localhost:8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`

	// Peers allowed to set X-Forwarded-For. Empty means the socket address is always used.
	TrustedProxies []string `yaml:"trusted_proxies" env:"HTTP_TRUSTED_PROXIES" env-separator:","`
}

type Mongo struct {
	URI            string        `yaml:"MONGO_URI" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `yaml:"MONGO_DATABASE" env:"MONGO_DATABASE" env-default:"fishshop"`
	MaxPoolSize    uint64        `yaml:"MAX_POOL_SIZE" env:"MONGO_MAX_POOL_SIZE" env-default:"100"`
	MinPoolSize    uint64        `yaml:"MIN_POOL_SIZE" env:"MONGO_MIN_POOL_SIZE" env-default:"5"`
	ConnectTimeout time.Duration `yaml:"CONNECT_TIMEOUT" env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Security struct {
	JWTKey         string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	JWTExpiryHours int    `yaml:"JWT_EXPIRY_HOURS" env:"JWT_EXPIRY_HOURS" env-default:"720"`

	// Admin password logins allowed per window before the username is locked out.
	AdminLoginMaxAttempts int64         `yaml:"ADMIN_LOGIN_MAX_ATTEMPTS" env:"ADMIN_LOGIN_MAX_ATTEMPTS" env-default:"5"`
	AdminLoginWindow      time.Duration `yaml:"ADMIN_LOGIN_WINDOW" env:"ADMIN_LOGIN_WINDOW" env-default:"15m"`
}

type OTP struct {
	CodeTTL           time.Duration `yaml:"CODE_TTL" env:"OTP_CODE_TTL" env-default:"5m"`
	MaxVerifyAttempts int           `yaml:"MAX_VERIFY_ATTEMPTS" env:"OTP_MAX_VERIFY_ATTEMPTS" env-default:"5"`
	ThrottleFailOpen  bool          `yaml:"THROTTLE_FAIL_OPEN" env:"OTP_THROTTLE_FAIL_OPEN" env-default:"true"`
	DevEcho           bool          `yaml:"DEV_ECHO" env:"OTP_DEV_ECHO" env-default:"false"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
	MaxJitter  time.Duration `yaml:"max_jitter" env:"CACHE_MAX_JITTER" env-default:"1m"`
}

type Stripe struct {
	APIKey        string `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret string `yaml:"STRIPE_WEBHOOK_SECRET" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Fish Shop"`
}

type Telegram struct {
	BotToken   string `yaml:"BOT_TOKEN" env:"TELEGRAM_BOT_TOKEN"`
	ChatID     string `yaml:"CHAT_ID" env:"TELEGRAM_CHAT_ID"`
	APIBaseURL string `yaml:"API_BASE_URL" env:"TELEGRAM_API_BASE_URL" env-default:"https://api.telegram.org"`
}

type WhatsApp struct {
	ShopPhone string `yaml:"SHOP_PHONE" env:"WHATSAPP_SHOP_PHONE"`
}

type SMS struct {
	GatewayURL string        `yaml:"GATEWAY_URL" env:"SMS_GATEWAY_URL"`
	APIKey     string        `yaml:"API_KEY" env:"SMS_API_KEY"`
	SenderID   string        `yaml:"SENDER_ID" env:"SMS_SENDER_ID" env-default:"FISHSP"`
	Timeout    time.Duration `yaml:"TIMEOUT" env:"SMS_TIMEOUT" env-default:"5s"`
}

type Pincode struct {
	BaseURL     string        `yaml:"BASE_URL" env:"PINCODE_BASE_URL" env-default:"https://api.postalpincode.in"`
	Timeout     time.Duration `yaml:"TIMEOUT" env:"PINCODE_TIMEOUT" env-default:"5s"`
	Serviceable []string      `yaml:"SERVICEABLE" env:"PINCODE_SERVICEABLE" env-separator:","`
}

type Otel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"fishshop-backend"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Admin struct {
	Username string `yaml:"USERNAME" env:"ADMIN_USERNAME"`
	Password string `yaml:"PASSWORD" env:"ADMIN_PASSWORD"`
}

type Shop struct {
	Name              string  `yaml:"NAME" env:"SHOP_NAME" env-default:"Fish Shop"`
	Currency          string  `yaml:"CURRENCY" env:"SHOP_CURRENCY" env-default:"inr"`
	DeliveryFee       float64 `yaml:"DELIVERY_FEE" env:"SHOP_DELIVERY_FEE" env-default:"0"`
	NotificationEmail string  `yaml:"NOTIFICATION_EMAIL" env:"SHOP_NOTIFICATION_EMAIL"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Mongo        Mongo        `yaml:"mongo"`
	RedisConnect RedisConnect `yaml:"redis"`
	Security     Security     `yaml:"security"`
	OTP          OTP          `yaml:"otp"`
	Cache        CacheConfig  `yaml:"cache"`
	Stripe       Stripe       `yaml:"stripe"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Telegram     Telegram     `yaml:"telegram"`
	WhatsApp     WhatsApp     `yaml:"whatsapp"`
	SMS          SMS          `yaml:"sms"`
	Pincode      Pincode      `yaml:"pincode"`
	Otel         Otel         `yaml:"otel"`
	Admin        Admin        `yaml:"admin"`
	Shop         Shop         `yaml:"shop"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "path to the yaml config file")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = defaultConfigPath
		}

	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func (r *RedisConnect) GetDSN() string {
	u := url.URL{
		Scheme: "redis",
		Host:   fmt.Sprintf("%s:%s", r.Host, r.Port),
		Path:   fmt.Sprintf("/%d", r.DB),
	}

	if r.Username != "" || r.Password != "" {
		u.User = url.UserPassword(r.Username, r.Password)
	}

	return u.String()
}
