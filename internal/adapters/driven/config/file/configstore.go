package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/notelift/notelift-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps notelift settings in a TOML file. Keys use dot
// notation (notion.token, import.concurrency); on disk they live in
// the matching TOML table. Every Set writes through to the file.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	data map[string]any
}

// NewConfigStore opens the config file under configDir, creating the
// directory if needed. An empty configDir means ~/.notelift. A missing
// file is not an error; the store starts empty.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".notelift")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		path: filepath.Join(configDir, "config.toml"),
		data: make(map[string]any),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString returns the value for key, or "" when the key is missing
// or holds a different type.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt returns the value for key, or 0 when the key is missing or
// holds a different type. TOML integers unmarshal as int64.
func (s *ConfigStore) GetInt(key string) int {
	switch v, _ := s.Get(key); v := v.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetStringSlice returns the value for key as a string slice, or nil
// when the key is missing or not an array. TOML arrays unmarshal as
// []any; non-string elements are skipped.
func (s *ConfigStore) GetStringSlice(key string) []string {
	switch v, _ := s.Get(key); v := v.(type) {
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
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value

	out, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}
	// Tokens live in this file, so keep it owner-only.
	return os.WriteFile(s.path, out, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// load reads the TOML file into the flat key map.
func (s *ConfigStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var nested map[string]any
	if err := toml.Unmarshal(raw, &nested); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = flatten(nested, "")
	s.mu.Unlock()
	return nil
}

// flatten converts nested TOML tables to dot-notation keys:
// {"notion": {"token": t}} becomes {"notion.token": t}.
func flatten(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)
	for key, value := range m {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			for k, v := range flatten(nested, full) {
				result[k] = v
			}
			continue
		}
		result[full] = value
	}
	return result
}
