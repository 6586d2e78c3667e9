package driven

// ConfigStore holds user settings under flattened dot keys
// ("content.dir", "render.width"). Unset keys read as their defaults.
type ConfigStore interface {
	// Get returns the value for key and whether it is set or defaulted.
	Get(key string) (any, bool)

	// GetString returns "" for missing or non-string values.
	GetString(key string) string

	// GetInt returns 0 for missing or non-numeric values.
	GetInt(key string) int

	GetBool(key string) bool

	GetStringSlice(key string) []string

	// Set validates and persists one value. Unknown keys are rejected
	// with domain.ErrInvalidInput.
	Set(key string, value any) error

	Save() error

	// Load re-reads the file, replacing in-memory values.
	Load() error

	// Keys lists the keys that have a value, sorted.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
