package conf

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every picturedesk environment variable.
const EnvPrefix = "PICTUREDESK"

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "PICTUREDESK_DEBUG", validateEnvBool},
		{"main.datadir", "PICTUREDESK_DATADIR", nil},
		{"api.baseurl", "PICTUREDESK_API_BASEURL", validateEnvBaseURL},
		{"ui.target", "PICTUREDESK_UI_TARGET", validateEnvSelector},
		{"ui.output", "PICTUREDESK_UI_OUTPUT", nil},
		{"ui.icons.enabled", "PICTUREDESK_UI_ICONS_ENABLED", validateEnvBool},
		{"host.readyevent", "PICTUREDESK_HOST_READYEVENT", validateEnvEventName},
		{"host.sentinel", "PICTUREDESK_HOST_SENTINEL", nil},
		{"host.signal", "PICTUREDESK_HOST_SIGNAL", validateEnvBool},
		{"logging.default_level", "PICTUREDESK_LOG_LEVEL", validateEnvLogLevel},
		{"telemetry.enabled", "PICTUREDESK_TELEMETRY_ENABLED", validateEnvBool},
		{"telemetry.dsn", "PICTUREDESK_TELEMETRY_DSN", nil},
		{"metrics.textfile", "PICTUREDESK_METRICS_TEXTFILE", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvBaseURL(value string) error {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return fmt.Errorf("base URL must start with http:// or https://")
	}
	return nil
}

var (
	selectorPattern  = regexp.MustCompile(`^#[A-Za-z][A-Za-z0-9_-]*$`)
	eventNamePattern = regexp.MustCompile(`^[a-z][a-z0-9:_-]*$`)
)

func validateEnvSelector(value string) error {
	if !selectorPattern.MatchString(value) {
		return fmt.Errorf("selector must have the form #id")
	}
	return nil
}

func validateEnvEventName(value string) error {
	if !eventNamePattern.MatchString(value) {
		return fmt.Errorf("event name must be lowercase letters, digits, ':', '_' or '-'")
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	switch value {
	case "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("log level must be one of trace, debug, info, warn, error")
}

// configureEnvironmentVariables sets up environment variable support for v
func configureEnvironmentVariables(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return bindEnvVars(v)
}
