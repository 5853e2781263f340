package engine

// Settings are the user-tunable rendering options.
type Settings struct {
	// Breaks renders single newlines as hard line breaks.
	Breaks bool `yaml:"breaks"`

	// Linkify turns bare URLs in text into links.
	Linkify bool `yaml:"linkify"`

	// Theme selects the syntax highlighting style.
	Theme string `yaml:"theme"`
}

// DefaultSettings returns the settings used when no configuration applies.
func DefaultSettings() Settings {
	return Settings{
		Breaks:  false,
		Linkify: true,
		Theme:   "github",
	}
}

// ConfigProvider supplies the current settings. The engine consults the
// provider on every render so that configuration changes take effect
// without rebuilding the engine; a change to the parser-relevant settings
// invalidates the token cache.
type ConfigProvider interface {
	Settings() Settings
}

// StaticConfig is a ConfigProvider that always returns the same settings.
type StaticConfig struct {
	Value Settings
}

// Settings implements ConfigProvider.
func (c StaticConfig) Settings() Settings { return c.Value }
