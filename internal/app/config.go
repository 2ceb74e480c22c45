package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/viper"

	"cipherchat/internal/crypto"
	"cipherchat/internal/relay"
)

const (
	ClientConfigName = "cipherchat"
	ClientEnvPrefix  = "CIPHERCHAT"
	RelayConfigName  = "relay"
	RelayEnvPrefix   = "CIPHERCHAT_RELAY"
)

// Config is the resolved client configuration.
type Config struct {
	RelayURL      string `mapstructure:"relay_url"`
	Username      string `mapstructure:"username"`
	KeyBits       int    `mapstructure:"key_bits"`
	BlobThreshold int    `mapstructure:"blob_threshold"`
	MaxFrameBytes int    `mapstructure:"max_frame_bytes"`
	ImageDir      string `mapstructure:"image_dir"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`

	HTTP *http.Client `mapstructure:"-"` // optional; defaults to http.DefaultClient
}

// RelayConfig is the resolved relay configuration.
type RelayConfig struct {
	Listen        string `mapstructure:"listen"`
	BlobDir       string `mapstructure:"blob_dir"`
	MaxBlobBytes  int64  `mapstructure:"max_blob_bytes"`
	MaxFrameBytes int64  `mapstructure:"max_frame_bytes"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
}

// NewViper returns a viper instance that reads name.yaml from the usual
// places and environment variables with prefix.
func NewViper(name, prefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.cipherchat")

	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func SetClientDefaults(v *viper.Viper) {
	v.SetDefault("relay_url", "http://127.0.0.1:8080")
	v.SetDefault("username", "")
	v.SetDefault("key_bits", crypto.DefaultRSABits)
	v.SetDefault("blob_threshold", 0)
	v.SetDefault("max_frame_bytes", relay.DefaultMaxFrameBytes)
	v.SetDefault("image_dir", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
}

func SetRelayDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("blob_dir", "uploads")
	v.SetDefault("max_blob_bytes", 10<<20)
	v.SetDefault("max_frame_bytes", relay.DefaultMaxFrameBytes)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// LoadConfig reads the client configuration from v.
func LoadConfig(v *viper.Viper) (Config, error) {
	if err := readConfigFile(v); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadRelayConfig reads the relay configuration from v.
func LoadRelayConfig(v *viper.Viper) (RelayConfig, error) {
	if err := readConfigFile(v); err != nil {
		return RelayConfig{}, err
	}
	var cfg RelayConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RelayConfig{}, fmt.Errorf("decode relay config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.RelayURL == "" {
		return errors.New("relay_url is required")
	}
	if _, err := relay.GatewayURL(c.RelayURL); err != nil {
		return err
	}
	if c.KeyBits < crypto.MinRSABits {
		return fmt.Errorf("key_bits %d: %w", c.KeyBits, crypto.ErrKeySize)
	}
	if c.BlobThreshold < 0 {
		return fmt.Errorf("blob_threshold must not be negative")
	}
	if c.MaxFrameBytes < 0 {
		return errors.New("max_frame_bytes must not be negative")
	}
	return nil
}

func (c RelayConfig) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is required")
	}
	if c.BlobDir == "" {
		return errors.New("blob_dir is required")
	}
	if c.MaxFrameBytes <= 0 {
		return errors.New("max_frame_bytes must be positive")
	}
	return nil
}

// readConfigFile loads the config file if there is one.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}
