package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edgeflare/passgen/pkg/passgen"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X ...config.Version=...".
var Version = "dev"

// Config holds application-wide configuration
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	REST      RESTConfig      `mapstructure:"rest"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// GeneratorConfig holds the default password request and generator tuning.
type GeneratorConfig struct {
	Length      int    `mapstructure:"length"`
	Lower       bool   `mapstructure:"lower"`
	Upper       bool   `mapstructure:"upper"`
	Digits      bool   `mapstructure:"digits"`
	Symbols     bool   `mapstructure:"symbols"`
	MaxAttempts int    `mapstructure:"maxAttempts"`
	Seed        uint64 `mapstructure:"seed"` // 0 selects crypto/rand
}

type RESTConfig struct {
	ListenAddr string            `mapstructure:"listenAddr"`
	BaseURL    string            `mapstructure:"baseURL"`
	MaxCount   int               `mapstructure:"maxCount"`
	BasicAuth  map[string]string `mapstructure:"basicAuth"`
	TLS        TLSConfig         `mapstructure:"tls"`
}

type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Request returns the default password request described by the config.
func (g GeneratorConfig) Request() passgen.Request {
	return passgen.Request{
		Length:  g.Length,
		Lower:   g.Lower,
		Upper:   g.Upper,
		Digits:  g.Digits,
		Symbols: g.Symbols,
	}
}

// Options returns generator options for the configured attempt budget and
// random source.
func (g GeneratorConfig) Options() []passgen.Option {
	opts := []passgen.Option{passgen.WithMaxAttempts(g.MaxAttempts)}
	if g.Seed != 0 {
		opts = append(opts, passgen.WithSource(passgen.NewSeededSource(g.Seed)))
	}
	return opts
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generator.length", 16)
	v.SetDefault("generator.lower", true)
	v.SetDefault("generator.upper", true)
	v.SetDefault("generator.digits", true)
	v.SetDefault("generator.symbols", true)
	v.SetDefault("generator.maxAttempts", passgen.DefaultMaxAttempts)
	v.SetDefault("generator.seed", 0)

	v.SetDefault("rest.listenAddr", ":8080")
	v.SetDefault("rest.baseURL", "/v1")
	v.SetDefault("rest.maxCount", 100)
	v.SetDefault("rest.tls.enabled", false)
	// keys without a default are invisible to AutomaticEnv during Unmarshal
	v.SetDefault("rest.tls.certFile", "")
	v.SetDefault("rest.tls.keyFile", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", ":9100")
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads config from file or environment. Values already set on v (for
// example bound cobra flags) take precedence over the file.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("passgen")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PASSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}
