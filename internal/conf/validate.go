package conf

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/picturedesk/picturedesk/internal/errors"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateAPISettings(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateUISettings(&settings.UI); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateHostSettings(&settings.Host); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.Telemetry.Enabled && settings.Telemetry.DSN == "" {
		ve.Errors = append(ve.Errors, "telemetry is enabled but no DSN is configured")
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Category(errors.CategoryConfiguration).
			Context("error_count", len(ve.Errors)).
			Build()
	}

	return nil
}

func validateAPISettings(settings *Settings) error {
	u, err := url.Parse(settings.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.baseurl %q must be an absolute http(s) URL", settings.API.BaseURL)
	}
	return nil
}

func validateUISettings(ui *UISettings) error {
	if err := validateEnvSelector(ui.Target); err != nil {
		return fmt.Errorf("ui.target %q: %w", ui.Target, err)
	}
	if ui.Document == "" {
		return fmt.Errorf("ui.document must not be empty")
	}
	if ui.Output == "" {
		return fmt.Errorf("ui.output must not be empty")
	}

	seen := make(map[string]bool, len(ui.Routes))
	for i, r := range ui.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("ui.routes[%d]: path %q must start with /", i, r.Path)
		}
		if r.Name == "" {
			continue
		}
		if seen[r.Name] {
			return fmt.Errorf("ui.routes[%d]: duplicate route name %q", i, r.Name)
		}
		seen[r.Name] = true
	}

	return nil
}

func validateHostSettings(host *HostSettings) error {
	if err := validateEnvEventName(host.ReadyEvent); err != nil {
		return fmt.Errorf("host.readyevent %q: %w", host.ReadyEvent, err)
	}
	return nil
}
