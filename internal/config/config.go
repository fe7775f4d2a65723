package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when NEURAREAD_CONFIG is unset
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port         int      `yaml:"port"`
	GinMode      string   `yaml:"gin_mode"`
	LogLevel     string   `yaml:"log_level"`
	CORSOrigins  []string `yaml:"cors_origins"`
	CookieSecure bool     `yaml:"cookie_secure"`
	APIBase      string   `yaml:"api_base"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	LogLevel string `yaml:"log_level"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type S3Config struct {
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
	UsePathStyle  bool   `yaml:"use_path_style"`
}

type UploadConfig struct {
	MaxBookBytes  int64 `yaml:"max_book_bytes"`
	MaxPhotoBytes int64 `yaml:"max_photo_bytes"`
	MaxPhotos     int   `yaml:"max_photos"`
}

type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	UserName string `yaml:"user_name"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	S3       S3Config       `yaml:"s3"`
	Uploads  UploadConfig   `yaml:"uploads"`
	Admin    AdminConfig    `yaml:"admin"`
}

type Config struct {
	Port         string
	GinMode      string
	LogLevel     string
	CORSOrigins  []string
	CookieSecure bool
	APIBase      string

	DSN        string
	DBLogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	OTP_TTL          time.Duration
	OTP_Length       int
	OTP_MaxAttempts  int
	OTP_ResendWindow time.Duration

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	S3 S3Config

	MaxBookBytes  int64
	MaxPhotoBytes int64
	MaxPhotos     int

	AdminEmail    string
	AdminPassword string
	AdminUserName string
}

// Defaults mirrors the values the service runs with when nothing is configured
func Defaults() ConfigFile {
	return ConfigFile{
		App: AppConfig{
			Port:        8000,
			GinMode:     "release",
			LogLevel:    "info",
			CORSOrigins: []string{"http://localhost:5173"},
			APIBase:     "/api/v1",
		},
		Database: DatabaseConfig{
			DSN:      "host=localhost user=postgres password=postgres dbname=neuraread port=5432 sslmode=disable",
			LogLevel: "warn",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		JWT:   JWTConfig{Issuer: "neuraread", TTL: "24h"},
		OTP: OTPConfig{
			TTL:          "10m",
			Length:       6,
			MaxAttempts:  5,
			ResendWindow: "60s",
		},
		S3:      S3Config{Region: "us-east-1"},
		Uploads: UploadConfig{MaxBookBytes: 5_000_000, MaxPhotoBytes: 20_000_000, MaxPhotos: 10},
		Admin:   AdminConfig{UserName: "admin"},
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present), the YAML file named by NEURAREAD_CONFIG and
// finally the environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(env("NEURAREAD_CONFIG", DefaultPath))
}

// LoadFile loads a config from path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	applyEnv(configFile)
	return build(configFile)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	config := Defaults()

	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}
	return &config, nil
}

func applyEnv(c *ConfigFile) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	}
	c.App.GinMode = env("GIN_MODE", c.App.GinMode)
	c.App.LogLevel = env("LOG_LEVEL", c.App.LogLevel)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.App.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		c.App.CookieSecure = v == "true"
	}

	c.Database.DSN = env("DATABASE_DSN", c.Database.DSN)
	c.Redis.Addr = env("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = env("REDIS_PASSWORD", c.Redis.Password)
	c.JWT.Secret = env("JWT_SECRET", c.JWT.Secret)
	c.JWT.TTL = env("JWT_TTL", c.JWT.TTL)

	c.Twilio.AccountSID = env("TWILIO_ACCOUNT_SID", c.Twilio.AccountSID)
	c.Twilio.AuthToken = env("TWILIO_AUTH_TOKEN", c.Twilio.AuthToken)
	c.Twilio.FromNumber = env("TWILIO_FROM_NUMBER", c.Twilio.FromNumber)

	c.S3.Bucket = env("S3_BUCKET", c.S3.Bucket)
	c.S3.Region = env("S3_REGION", c.S3.Region)
	c.S3.Endpoint = env("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.AccessKey = env("S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = env("S3_SECRET_KEY", c.S3.SecretKey)
	c.S3.PublicBaseURL = env("S3_PUBLIC_BASE_URL", c.S3.PublicBaseURL)

	c.Admin.Email = env("ADMIN_EMAIL", c.Admin.Email)
	c.Admin.Password = env("ADMIN_PASSWORD", c.Admin.Password)
}

func build(c *ConfigFile) (*Config, error) {
	if c.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	tokenTTL, err := time.ParseDuration(c.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT TTL: %w", err)
	}
	if tokenTTL <= 0 {
		return nil, errors.New("JWT TTL must be positive")
	}

	otpTTL, err := time.ParseDuration(c.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(c.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	if c.Uploads.MaxBookBytes <= 0 || c.Uploads.MaxPhotoBytes <= 0 || c.Uploads.MaxPhotos <= 0 {
		return nil, errors.New("upload limits must be positive")
	}

	return &Config{
		Port:             strconv.Itoa(c.App.Port),
		GinMode:          c.App.GinMode,
		LogLevel:         c.App.LogLevel,
		CORSOrigins:      c.App.CORSOrigins,
		CookieSecure:     c.App.CookieSecure,
		APIBase:          strings.TrimRight(c.App.APIBase, "/"),
		DSN:              c.Database.DSN,
		DBLogLevel:       c.Database.LogLevel,
		RedisAddr:        c.Redis.Addr,
		RedisPassword:    c.Redis.Password,
		RedisDB:          c.Redis.DB,
		JWTSecret:        c.JWT.Secret,
		JWTIssuer:        c.JWT.Issuer,
		TokenTTL:         tokenTTL,
		OTP_TTL:          otpTTL,
		OTP_Length:       c.OTP.Length,
		OTP_MaxAttempts:  c.OTP.MaxAttempts,
		OTP_ResendWindow: resWnd,
		TwilioSID:        c.Twilio.AccountSID,
		TwilioToken:      c.Twilio.AuthToken,
		TwilioFrom:       c.Twilio.FromNumber,
		S3:               c.S3,
		MaxBookBytes:     c.Uploads.MaxBookBytes,
		MaxPhotoBytes:    c.Uploads.MaxPhotoBytes,
		MaxPhotos:        c.Uploads.MaxPhotos,
		AdminEmail:       c.Admin.Email,
		AdminPassword:    c.Admin.Password,
		AdminUserName:    c.Admin.UserName,
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
