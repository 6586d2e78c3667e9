package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Setting keys.
const (
	KeyContentDir  = "content.dir"
	KeyRulesDir    = "rules.dir"
	KeyDataDir     = "data.dir"
	KeyRenderWidth = "render.width"
	KeyRenderStyle = "render.style"
)

// defaults apply to keys missing from the file.
var defaults = map[string]any{
	KeyContentDir:  ".",
	KeyRenderWidth: int64(80),
	KeyRenderStyle: "auto",
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Settings are stored in config.toml within the chaptermap home directory;
// nested tables are exposed as dot-notation keys.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// DefaultHome returns ~/.chaptermap.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".chaptermap"), nil
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.chaptermap/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultHome()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by key, falling back to the defaults.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	val, ok := s.data[key]
	s.mu.RUnlock()
	if ok {
		return val, true
	}
	val, ok = defaults[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, _ := s.Get(key)
	b, _ := val.(bool)
	return b
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}
	// TOML arrays are parsed as []any
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// Set stores a configuration value and persists immediately.
// Only the known setting keys are accepted.
func (s *ConfigStore) Set(key string, value any) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	if key == KeyRenderWidth {
		if str, ok := value.(string); ok {
			n, err := strconv.Atoi(str)
			if err != nil || n < 0 {
				return fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
			}
			value = int64(n)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes the settings as nested TOML tables (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(unflattenMap(s.data))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load reads configuration from the TOML file. A missing file is not an error.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse config %s: %w", s.filePath, err)
	}
	s.data = flattenMap(loaded, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Keys returns every setting key with a value, defaults included, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool, len(s.data)+len(defaults))
	keys := make([]string, 0, len(s.data)+len(defaults))
	for _, m := range []map[string]any{s.data, defaults} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a recognised setting.
func IsKnownKey(key string) bool {
	switch key {
	case KeyContentDir, KeyRulesDir, KeyDataDir, KeyRenderWidth, KeyRenderStyle:
		return true
	}
	return false
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)
	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}
	return result
}

// unflattenMap is the inverse of flattenMap for single-dot keys.
func unflattenMap(m map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range m {
		table, field, ok := cutLast(key)
		if !ok {
			result[key] = value
			continue
		}
		nested, _ := result[table].(map[string]any)
		if nested == nil {
			nested = make(map[string]any)
			result[table] = nested
		}
		nested[field] = value
	}
	return result
}

func cutLast(key string) (string, string, bool) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '.' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
