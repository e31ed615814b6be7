// Package config provides configuration management for the EuPlatesc client.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"sync"
	"time"

	"euplatesc/entity"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DefaultGatewayURL = "https://secure.euplatesc.ro/tdsprocess/tranzactd.php"
	DefaultManagerURL = "https://manager.euplatesc.ro/v3/?action=ws"
)

// Config holds all configuration for the EuPlatesc client.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug  bool `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	Merchant struct {
		ID         string `yaml:"id" env:"MERCHANT_ID" env-default:""`
		Secret     string `yaml:"secret" env:"MERCHANT_SECRET" env-default:"" env-description:"merchant key, hex encoded"`
		TestMode   bool   `yaml:"test_mode" env:"MERCHANT_TEST_MODE" env-default:"false"`
		UserKey    string `yaml:"user_key" env:"MERCHANT_USER_KEY" env-default:"" env-description:"required by account-management calls"`
		UserAPIKey string `yaml:"user_api_key" env:"MERCHANT_USER_API_KEY" env-default:"" env-description:"required by account-management calls, hex encoded"`
	} `yaml:"merchant"`
	Gateway struct {
		URL        string        `yaml:"url" env:"GATEWAY_URL" env-default:"https://secure.euplatesc.ro/tdsprocess/tranzactd.php"`
		ManagerURL string        `yaml:"manager_url" env:"GATEWAY_MANAGER_URL" env-default:"https://manager.euplatesc.ro/v3/?action=ws"`
		Timeout    time.Duration `yaml:"timeout" env:"GATEWAY_TIMEOUT" env-default:"0s"`
	} `yaml:"gateway"`
	Sandbox struct {
		BindIP string `yaml:"bind_ip" env:"SANDBOX_BIND_IP" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env:"SANDBOX_PORT" env-default:"5200"`
	} `yaml:"sandbox"`
}

// Credentials returns the immutable credential bundle described by the config.
func (c *Config) Credentials() entity.Credentials {
	return entity.Credentials{
		MerchantID: c.Merchant.ID,
		SecretKey:  c.Merchant.Secret,
		UserKey:    c.Merchant.UserKey,
		UserAPIKey: c.Merchant.UserAPIKey,
		TestMode:   c.Merchant.TestMode,
	}
}

var instance *Config
var instanceErr error
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	once.Do(func() {
		instance, instanceErr = Load(path)
	})
	return instance, instanceErr
}

// Load reads a YAML file and the environment without caching the result.
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		return nil, describe(conf, err)
	}
	return conf, nil
}

// LoadEnv reads the configuration from environment variables only.
func LoadEnv() (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, describe(conf, err)
	}
	return conf, nil
}

func describe(conf *Config, err error) error {
	desc, _ := cleanenv.GetDescription(conf, nil)
	return fmt.Errorf("load config: %w; %s", err, desc)
}
