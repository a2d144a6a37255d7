package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	SQLitePath string `yaml:"SQLITE_PATH"`

	// Application
	AppURL       string `yaml:"APP_URL"`
	AppPort      string `yaml:"APP_PORT"`
	LogMode      string `yaml:"LOG_MODE"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`

	// Token denylist
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
}

const defaultConfigPath = "config.yaml"

var config Config

func LoadConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	if err := LoadConfigFile(path); err != nil {
		log.Printf("Error loading config %s: %s\n", path, err)
	}
}

// LoadConfigFile replaces the current configuration with the content of path.
func LoadConfigFile(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var next Config
	if err := yaml.Unmarshal(file, &next); err != nil {
		return err
	}
	config = next
	return nil
}

// GetConfig returns the YAML value for key, falling back to the environment
// variable of the same name when the YAML value is empty.
func GetConfig(key string) string {
	if v := lookupConfig(key); v != "" {
		return v
	}
	return os.Getenv(key)
}

// GetConfigInt is GetConfig parsed as an int; def is returned when the value
// is missing or malformed.
func GetConfigInt(key string, def int) int {
	v := GetConfig(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func lookupConfig(key string) string {
	switch key {
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "SQLITE_PATH":
		return config.SQLitePath
	case "APP_URL":
		return config.AppURL
	case "APP_PORT":
		return config.AppPort
	case "LOG_MODE":
		return config.LogMode
	case "RATE_LIMIT_MAX":
		if config.RateLimitMax > 0 {
			return strconv.Itoa(config.RateLimitMax)
		}
		return ""
	case "JWT_SECRET":
		return config.JWTSecret
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	default:
		return ""
	}
}
