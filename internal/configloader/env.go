package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/wudragonfly/mdview/pkg/engine"
)

// envVarPrefix is the prefix for all mdview environment variables.
const envVarPrefix = "MDVIEW_"

// LoadFromEnv applies environment variable overrides to the settings.
// Environment variables are prefixed with MDVIEW_ (e.g., MDVIEW_THEME).
func LoadFromEnv(settings *engine.Settings) error {
	if settings == nil {
		return nil
	}

	if err := envBool("BREAKS", &settings.Breaks); err != nil {
		return err
	}
	if err := envBool("LINKIFY", &settings.Linkify); err != nil {
		return err
	}
	if value := os.Getenv(envVarPrefix + "THEME"); value != "" {
		settings.Theme = value
	}

	return nil
}

func envBool(suffix string, dst *bool) error {
	envVar := envVarPrefix + suffix
	value := os.Getenv(envVar)
	if value == "" {
		return nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
	}
	*dst = b
	return nil
}
