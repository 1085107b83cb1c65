package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Minio  MinioConfig  `yaml:"minio"`
	Ade    AdeConfig    `yaml:"ade"`
	Agent  AgentConfig  `yaml:"agent"`
	Store  StoreConfig  `yaml:"store"`
	Upload UploadConfig `yaml:"upload"`
	Auth   AuthConfig   `yaml:"auth"`
	Users  []User       `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

// AdeConfig configures the document-extraction vendor (agentic document
// extraction API: parse to markdown, then schema-driven field extraction).
type AdeConfig struct {
	APIURL       string `yaml:"api_url"`
	APIKey       string `yaml:"api_key"`
	ParseModel   string `yaml:"parse_model"`
	ExtractModel string `yaml:"extract_model"`
}

// AgentConfig configures the LLM-backed agent workflows. When OfflineMode
// is set the deterministic analyzers replace the live model call; the flag
// is read once at startup and never mid-run.
type AgentConfig struct {
	OfflineMode bool    `yaml:"offline_mode"`
	APIURL      string  `yaml:"api_url"` // OpenAI-compatible base URL
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type StoreConfig struct {
	MaxContracts int `yaml:"max_contracts"`
}

type UploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Tenant   string `yaml:"tenant"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Minio.ExpireDays == 0 {
		cfg.Minio.ExpireDays = 7
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Ade.ParseModel == "" {
		cfg.Ade.ParseModel = "dpt-2-latest"
	}
	if cfg.Ade.ExtractModel == "" {
		cfg.Ade.ExtractModel = "extract-latest"
	}
	if cfg.Agent.Model == "" {
		cfg.Agent.Model = "gpt-4o-mini"
	}
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = 20
	}

	return &cfg, nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
