package config

import (
	"log"

	"github.com/spf13/viper"
)

type PushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
	Subscriber      string `mapstructure:"subscriber"`
	TTL             int    `mapstructure:"ttl"`
	QueueSize       int    `mapstructure:"queue_size"`
}

// Enabled reports whether the server holds a VAPID key pair. Without one the
// dispatcher still runs but every delivery attempt fails at the transport.
func (c PushConfig) Enabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

type Config struct {
	DatabaseURL   string     `mapstructure:"database_url"`
	ServerPort    string     `mapstructure:"server_port"`
	JWTSecret     string     `mapstructure:"jwt_secret"`
	AllowedOrigin string     `mapstructure:"allowed_origin"`
	Push          PushConfig `mapstructure:"push"`
}

// Load reads the configuration from a YAML file and returns a Config instance.
func Load() *Config {
	v := viper.New()

	// Look for config in the current directory and ./config
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("Error unmarshalling config: %v", err)
	}

	// Fallback defaults
	if config.ServerPort == "" {
		config.ServerPort = "8080"
	}
	if config.AllowedOrigin == "" {
		config.AllowedOrigin = "http://localhost:3000"
	}

	if config.JWTSecret == "" {
		log.Fatal("JWT secret must be set in the config file")
	}

	if config.Push.Subscriber == "" {
		config.Push.Subscriber = "mailto:contato@prodexy.com"
	}
	if config.Push.TTL == 0 {
		config.Push.TTL = 60 * 60 * 24
	}
	if config.Push.QueueSize == 0 {
		config.Push.QueueSize = 64
	}

	return &config
}
