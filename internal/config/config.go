// Package config loads runtime settings from postgen.yaml, .env and
// POSTGEN_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-postgen/pkg/render"
)

// EnvPrefix namespaces environment overrides, e.g. POSTGEN_API_ENDPOINT.
const EnvPrefix = "POSTGEN"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	OpenAPI OpenAPIConfig `mapstructure:"openapi"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// APIConfig points at the content-generation API.
type APIConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	// Timeout bounds one generation request. Zero keeps the transport
	// default, which never gives up on its own.
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig selects the theme and an optional UI schema directory.
type UIConfig struct {
	Theme     string `mapstructure:"theme"`
	Variant   string `mapstructure:"variant"`
	SchemaDir string `mapstructure:"schema_dir"`
}

// OpenAPIConfig names the document describing the generation API. Empty
// uses the embedded contract.
type OpenAPIConfig struct {
	Source string `mapstructure:"source"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config path. Empty searches ./ and ./configs for
	// postgen.yaml.
	File string
	// EnvFiles are loaded with godotenv before reading the environment.
	// Missing files are ignored.
	EnvFiles []string
}

// Load reads configuration from file and environment. It does not validate;
// callers apply their own overrides and then call Validate.
func Load(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("postgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	endpoint := strings.TrimSpace(c.API.Endpoint)
	if endpoint == "" {
		return errors.New("config: api.endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("config: api.endpoint %q must be an http(s) URL", c.API.Endpoint)
	}
	if c.API.Timeout < 0 {
		return errors.New("config: api.timeout must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	// Generation can take a while; zero leaves writes unbounded.
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("api.endpoint", "http://localhost:8000")
	v.SetDefault("api.timeout", 0)

	v.SetDefault("ui.theme", render.DefaultThemeName)
	v.SetDefault("ui.variant", render.DefaultThemeVariant)
	v.SetDefault("ui.schema_dir", "")

	v.SetDefault("openapi.source", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
