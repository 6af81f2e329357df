// Package conf loads picturedesk settings from config.yaml, environment variables and CLI flags.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// RouteSettings is one entry of the router plugin's static route table.
type RouteSettings struct {
	Path      string `yaml:"path"`
	Name      string `yaml:"name"`
	Component string `yaml:"component"`
}

// UISettings controls how the application is bootstrapped and mounted.
type UISettings struct {
	Target   string          `yaml:"target"`   // DOM anchor selector, "#app"
	Document string          `yaml:"document"` // root document inside the frontend FS
	Output   string          `yaml:"output"`   // mounted document path; relative paths resolve under main.datadir
	Routes   []RouteSettings `yaml:"routes"`
	Icons    IconSettings    `yaml:"icons"`
}

// IconSettings controls the optional icon component.
type IconSettings struct {
	Enabled bool     `yaml:"enabled"` // install the icon component and register the default set
	Packs   []string `yaml:"packs"`   // additional YAML icon pack files
}

// HostSettings configures how readiness is received from the host window.
type HostSettings struct {
	ReadyEvent  string `yaml:"readyevent"`  // readiness event name
	LegacyAlias bool   `yaml:"legacyalias"` // also accept the pywebview event name
	Sentinel    string `yaml:"sentinel"`    // file whose creation signals readiness; empty disables
	Signal      bool   `yaml:"signal"`      // treat SIGUSR1 as readiness
}

// TelemetrySettings contains settings for error telemetry.
type TelemetrySettings struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// MetricsSettings contains settings for the Prometheus textfile export.
type MetricsSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"` // node-exporter textfile collector output
}

// Settings is the root configuration struct.
type Settings struct {
	Debug bool `yaml:"debug"`

	Main struct {
		Name    string `yaml:"name"`
		DataDir string `yaml:"datadir"`
	} `yaml:"main"`

	API struct {
		BaseURL string `yaml:"baseurl"`
	} `yaml:"api"`

	UI        UISettings           `yaml:"ui"`
	Host      HostSettings         `yaml:"host"`
	Logging   logger.LoggingConfig `yaml:"logging"`
	Telemetry TelemetrySettings    `yaml:"telemetry"`
	Metrics   MetricsSettings      `yaml:"metrics"`
}

// OutputPath returns the mounted document path with relative paths resolved
// under the data directory.
func (s *Settings) OutputPath() string {
	if filepath.IsAbs(s.UI.Output) || s.Main.DataDir == "" {
		return s.UI.Output
	}
	return filepath.Join(s.Main.DataDir, s.UI.Output)
}

// Load reads config.yaml, environment variables and bound flags from the global
// viper instance into Settings.
func Load() (*Settings, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads settings using v. When no config file is set on v the default
// search paths are used and a default config.yaml is created if none exists.
func LoadFrom(v *viper.Viper) (*Settings, error) {
	if err := initViper(v); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal_settings").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper applies defaults and env bindings to v and reads the configuration file.
func initViper(v *viper.Viper) error {
	setDefaultConfig(v)

	if err := configureEnvironmentVariables(v); err != nil {
		return err
	}

	if v.ConfigFileUsed() != "" {
		return v.ReadInConfig()
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	err = v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig(v, configPaths[0])
		}
		return errors.New(err).
			Category(errors.CategoryFileParsing).
			Context("operation", "read_config").
			Build()
	}

	return nil
}

// createDefaultConfig writes the embedded default config.yaml into dir and reads it.
func createDefaultConfig(v *viper.Viper, dir string) error {
	configPath := filepath.Join(dir, "config.yaml")

	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.FileError(fmt.Errorf("error creating directories for config file: %w", err), dir, 0)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil { //nolint:gosec // config is not secret
		return errors.FileError(fmt.Errorf("error writing default config file: %w", err), configPath, int64(len(data)))
	}

	logger.Global().Module("conf").Info("created default config file", logger.String("path", configPath))
	return v.ReadInConfig()
}

// DefaultConfig returns the embedded default config.yaml.
func DefaultConfig() []byte {
	data, _ := fs.ReadFile(configFiles, "config.yaml")
	return data
}
