package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. UART_LOOPBACK_LOG_LEVEL.
const EnvPrefix = "UART_LOOPBACK"

// ConfigEnv names the variable holding an explicit config file path.
const ConfigEnv = EnvPrefix + "_CONFIG"

// Config holds the operational settings. Frame, baud rate and read timeout
// are fixed and deliberately absent.
type Config struct {
	Device DeviceConfig `mapstructure:"device"`
	Log    LogConfig    `mapstructure:"log"`
}

// DeviceConfig selects the serial backend.
type DeviceConfig struct {
	Backend string `mapstructure:"backend"` // termios, tarm, bugst
}

type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"` // console or json
	Output string        `mapstructure:"output"` // stderr, file, both, none
	File   LogFileConfig `mapstructure:"file"`
}

type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	backends = []string{"termios", "tarm", "bugst"}
	formats  = []string{"console", "json"}
	outputs  = []string{"stderr", "file", "both", "none"}
	levels   = []string{"debug", "info", "warn", "error"}
)

var (
	cfg *Config
	mu  sync.RWMutex
)

// Load reads the configuration. An empty path searches ./config, . and
// /etc/uart-loopback for uart-loopback.yaml; a missing searched file falls
// back to defaults, a missing explicit file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("uart-loopback")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/uart-loopback")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	normalize(c)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init loads the configuration named by UART_LOOPBACK_CONFIG (or the search
// path) and installs it for Get.
func Init() error {
	c, err := Load(os.Getenv(ConfigEnv))
	if err != nil {
		return err
	}

	mu.Lock()
	cfg = c
	mu.Unlock()
	return nil
}

// Get returns the installed configuration, or nil before Init.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("device.backend", "termios")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "uart-loopback.log")
	v.SetDefault("log.file.max_size", 10)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.compress", true)
}

func normalize(c *Config) {
	c.Device.Backend = strings.ToLower(strings.TrimSpace(c.Device.Backend))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Log.Output = strings.ToLower(strings.TrimSpace(c.Log.Output))
}

// Validate rejects values no component understands.
func (c *Config) Validate() error {
	if !oneOf(c.Device.Backend, backends) {
		return fmt.Errorf("device.backend %q: must be one of %s", c.Device.Backend, strings.Join(backends, ", "))
	}
	if !oneOf(c.Log.Level, levels) {
		return fmt.Errorf("log.level %q: must be one of %s", c.Log.Level, strings.Join(levels, ", "))
	}
	if !oneOf(c.Log.Format, formats) {
		return fmt.Errorf("log.format %q: must be one of %s", c.Log.Format, strings.Join(formats, ", "))
	}
	if !oneOf(c.Log.Output, outputs) {
		return fmt.Errorf("log.output %q: must be one of %s", c.Log.Output, strings.Join(outputs, ", "))
	}
	if (c.Log.Output == "file" || c.Log.Output == "both") && c.Log.File.Filename == "" {
		return fmt.Errorf("log.file.filename is required for output %q", c.Log.Output)
	}
	return nil
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
