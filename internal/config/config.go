package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App    App    `mapstructure:"app"`
	Qloo   Qloo   `mapstructure:"qloo"`
	Gemini Gemini `mapstructure:"gemini"`
	Email  Email  `mapstructure:"email"`
	Server Server `mapstructure:"server"`
}

// App holds general application configuration
type App struct {
	Debug      bool   `mapstructure:"debug"`
	LogLevel   string `mapstructure:"log_level"`
	DataDir    string `mapstructure:"data_dir"`
	ConfigFile string `mapstructure:"config_file"`
}

// Qloo holds trend-data API configuration
type Qloo struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Timeout   string `mapstructure:"timeout"`
	RateLimit string `mapstructure:"rate_limit"`
}

// Gemini holds Google Gemini configuration
type Gemini struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout string `mapstructure:"timeout"`
}

// Email holds outbound email configuration
type Email struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	Timeout      string `mapstructure:"timeout"`
}

// Server holds HTTP server configuration
type Server struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Timeout string `mapstructure:"timeout"`
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".trendletter")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".trendletter-data")

	// Qloo defaults
	viper.SetDefault("qloo.base_url", "https://hackathon.api.qloo.com")
	viper.SetDefault("qloo.timeout", "15s")
	viper.SetDefault("qloo.rate_limit", "200ms")

	// Gemini defaults
	viper.SetDefault("gemini.model", "gemini-2.0-flash-lite")
	viper.SetDefault("gemini.timeout", "30s")

	// Email defaults
	viper.SetDefault("email.from_address", "newsletter@trendletter.dev")
	viper.SetDefault("email.from_name", "Trendletter")
	viper.SetDefault("email.timeout", "10s")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout", "60s")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("qloo.api_key", []string{
		"QLOO_API_KEY",
	})

	bindEnvKeys("gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("email.resend_api_key", []string{
		"RESEND_API_KEY",
	})

	bindEnvKeys("email.from_address", []string{
		"EMAIL_FROM_ADDRESS",
		"RESEND_FROM_ADDRESS",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"TRENDLETTER_DEBUG",
	})

	bindEnvKeys("app.data_dir", []string{
		"TRENDLETTER_DATA_DIR",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	if config.App.DataDir != "" {
		config.App.DataDir = expandPath(config.App.DataDir)
	}

	durations := map[string]string{
		"qloo.timeout":    config.Qloo.Timeout,
		"qloo.rate_limit": config.Qloo.RateLimit,
		"gemini.timeout":  config.Gemini.Timeout,
		"email.timeout":   config.Email.Timeout,
		"server.timeout":  config.Server.Timeout,
	}

	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Convenience getters for commonly used configuration values
func GetApp() App       { return Get().App }
func GetQloo() Qloo     { return Get().Qloo }
func GetGemini() Gemini { return Get().Gemini }
func GetEmail() Email   { return Get().Email }
func GetServer() Server { return Get().Server }

func GetDataDir() string      { return Get().App.DataDir }
func GetQlooAPIKey() string   { return Get().Qloo.APIKey }
func GetGeminiAPIKey() string { return Get().Gemini.APIKey }
func GetGeminiModel() string  { return Get().Gemini.Model }
func GetResendAPIKey() string { return Get().Email.ResendAPIKey }
func IsDebugMode() bool       { return Get().App.Debug }

// Duration parses the named duration field, falling back to def on
// missing or malformed values.
func Duration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
