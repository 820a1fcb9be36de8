// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config.yaml"
	ConfigDirName  = "notebookexec"
	EnvPrefix      = "NOTEBOOKEXEC"
)

// Supported configuration keys
const (
	KeyProject          = "core.project"
	KeyRegion           = "ai.region"
	KeyPollInterval     = "operations.poll_interval"
	KeyOperationTimeout = "operations.timeout"
	KeyOutputFormat     = "output.format"
	KeyAPIEndpoint      = "api.endpoint"
)

var ErrUnknownKey = errors.New("unknown configuration key")

type CoreConfig struct {
	Project string `mapstructure:"project"`
}

type AIConfig struct {
	Region string `mapstructure:"region"`
}

type OperationsConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"min=1s"`
	// Zero waits without a deadline
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0s"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" validate:"omitempty,oneof=table json yaml"`
}

type APIConfig struct {
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

type Config struct {
	Core       CoreConfig       `mapstructure:"core"`
	AI         AIConfig         `mapstructure:"ai"`
	Operations OperationsConfig `mapstructure:"operations"`
	Output     OutputConfig     `mapstructure:"output"`
	API        APIConfig        `mapstructure:"api"`
}

var defaults = map[string]any{
	KeyPollInterval:     "5s",
	KeyOperationTimeout: "0s",
}

var durationKeys = map[string]bool{
	KeyPollInterval:     true,
	KeyOperationTimeout: true,
}

// Returns the sorted list of keys accepted by 'config set'
func SupportedKeys() []string {
	keys := []string{KeyProject, KeyRegion, KeyPollInterval, KeyOperationTimeout, KeyOutputFormat, KeyAPIEndpoint}
	sort.Strings(keys)
	return keys
}

func IsSupportedKey(key string) bool {
	for _, k := range SupportedKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ConfigManager reads the effective configuration (defaults, file, environment)
// and edits the configuration file
type ConfigManager struct {
	path      string
	effective *viper.Viper
	file      *viper.Viper
	validate  *validator.Validate
}

type Option func(*ConfigManager)

// Stores the configuration file in dir instead of ~/.config/notebookexec
func WithConfigDir(dir string) Option {
	return func(m *ConfigManager) {
		m.path = filepath.Join(dir, ConfigFileName)
	}
}

func NewConfigManager(opts ...Option) (*ConfigManager, error) {
	m := &ConfigManager{validate: validator.New(validator.WithRequiredStructEnabled())}
	for _, opt := range opts {
		opt(m)
	}

	if m.path == "" {
		path, err := defaultConfigPath()
		if err != nil {
			return nil, err
		}
		m.path = path
	}

	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

func defaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, ConfigFileName), nil
}

func (m *ConfigManager) Path() string {
	return m.path
}

func (m *ConfigManager) reload() error {
	file := viper.New()
	file.SetConfigFile(m.path)
	if err := readIfExists(file, m.path); err != nil {
		return err
	}

	effective := viper.New()
	for k, v := range defaults {
		effective.SetDefault(k, v)
	}
	effective.SetEnvPrefix(EnvPrefix)
	effective.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	effective.AutomaticEnv()
	// Bind explicitly so AllSettings reports keys only set in the environment
	for _, key := range SupportedKeys() {
		if err := effective.BindEnv(key); err != nil {
			return fmt.Errorf("error binding environment for %s: %w", key, err)
		}
	}
	if err := effective.MergeConfigMap(file.AllSettings()); err != nil {
		return fmt.Errorf("error merging config file: %w", err)
	}

	m.file = file
	m.effective = effective
	return nil
}

func readIfExists(v *viper.Viper, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

// Decodes and validates the effective configuration
func (m *ConfigManager) LoadConfig() (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := m.effective.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("error decoding configuration: %w", err)
	}
	if err := m.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", m.path, err)
	}
	return &cfg, nil
}

// Returns the effective string value of key. Satisfies argparse.Properties
func (m *ConfigManager) GetValue(key string) (string, bool) {
	if !m.effective.IsSet(key) {
		return "", false
	}
	value := m.effective.GetString(key)
	return value, value != ""
}

func (m *ConfigManager) SetValue(key, value string) error {
	if !IsSupportedKey(key) {
		return fmt.Errorf("%w: %s. Supported keys are: %s", ErrUnknownKey, key, strings.Join(SupportedKeys(), ", "))
	}
	if err := m.checkValue(key, value); err != nil {
		return err
	}

	m.file.Set(key, value)
	if err := m.write(m.file.AllSettings()); err != nil {
		return err
	}
	return m.reload()
}

func (m *ConfigManager) checkValue(key, value string) error {
	if durationKeys[key] {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", key, err)
		}
	}
	switch key {
	case KeyOutputFormat:
		if err := m.validate.Var(value, "oneof=table json yaml"); err != nil {
			return fmt.Errorf("invalid value for %s: must be one of table, json, yaml", key)
		}
	case KeyAPIEndpoint:
		if err := m.validate.Var(value, "url"); err != nil {
			return fmt.Errorf("invalid value for %s: must be a URL", key)
		}
	}
	return nil
}

// Removes key from the configuration file. Returns false if it was not set there
func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	if !IsSupportedKey(key) {
		return false, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if !m.file.IsSet(key) {
		return false, nil
	}

	settings := m.file.AllSettings()
	section, field, _ := strings.Cut(key, ".")
	if nested, ok := settings[section].(map[string]any); ok {
		delete(nested, field)
		if len(nested) == 0 {
			delete(settings, section)
		}
	}

	if err := m.write(settings); err != nil {
		return false, err
	}
	if err := m.reload(); err != nil {
		return false, err
	}
	return true, nil
}

// Returns the effective settings as a nested map
func (m *ConfigManager) GetAllSettings() map[string]any {
	return m.effective.AllSettings()
}

func (m *ConfigManager) write(settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	out := viper.New()
	if err := out.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := out.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
