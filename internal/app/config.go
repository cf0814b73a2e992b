package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"signa/internal/api"
)

// EnvPrefix prefixes every environment override, e.g. SIGNA_API_URL.
const EnvPrefix = "SIGNA"

// Config holds runtime options for building the app.
type Config struct {
	APIURL        string        `mapstructure:"api_url" json:"api_url"`
	Home          string        `mapstructure:"home" json:"home"` // e.g. $HOME/.signa
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout"`
	Passphrase    string        `mapstructure:"passphrase" json:"-"`
	RedirectDelay time.Duration `mapstructure:"redirect_delay" json:"redirect_delay"`
	Logging       LoggingConfig `mapstructure:"logging" json:"logging"`
	Output        OutputConfig  `mapstructure:"output" json:"output"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `mapstructure:"-" json:"config_file,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Colors bool `mapstructure:"colors" json:"colors"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"api-url": "api_url",
	"home":    "home",
	"timeout": "timeout",
}

// Load reads .env, the optional config file, SIGNA_* variables and the
// flags in fs, in increasing order of precedence. cfgFile overrides the
// config file search. fs may be nil.
func Load(cfgFile string, fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".signa")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/signa")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.Home = expandHome(cfg.Home)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) error {
	home, err := defaultHome()
	if err != nil {
		return err
	}
	v.SetDefault("api_url", api.DefaultBaseURL)
	v.SetDefault("home", home)
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("passphrase", "")
	v.SetDefault("redirect_delay", 2*time.Second)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("output.colors", true)
	return nil
}

func defaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(dir, ".signa"), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(dir, strings.TrimPrefix(p, "~"))
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an http(s) URL", c.APIURL)
	}
	if c.Home == "" {
		return errors.New("home must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	if c.RedirectDelay < 0 {
		return fmt.Errorf("invalid redirect_delay %s: must not be negative", c.RedirectDelay)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be console or json)", c.Logging.Format)
	}
	return nil
}
