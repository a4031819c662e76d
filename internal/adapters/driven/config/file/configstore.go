package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
	"github.com/custodia-labs/multisearch/internal/logger"
)

// WatchSettle is how long the file must be quiet before Watch reloads it.
const WatchSettle = 50 * time.Millisecond

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Configuration is stored in a TOML file within the multisearch config directory.
// Subscribers are notified after Set and after external edits seen by Watch.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any

	subsMu  sync.Mutex
	subs    map[int]func()
	nextSub int
}

// DefaultDir returns ~/.multisearch.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".multisearch"), nil
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.multisearch/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
		subs:     make(map[int]func()),
	}

	if err := s.Load(); err != nil {
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

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}

	b, ok := val.(bool)
	if !ok {
		return false
	}
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
		return append([]string(nil), v...)
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

// Set stores a configuration value, persists it and notifies subscribers.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	if slice, ok := value.([]string); ok {
		value = append([]string(nil), slice...)
	}
	s.data[key] = value
	err := s.save()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// save writes configuration to the TOML file (caller must hold lock).
// The file is replaced atomically so watchers never observe a partial write.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".config-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.filePath)
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	_, err := s.reload()
	return err
}

// reload replaces the in-memory data with the file's contents and reports
// whether anything changed.
func (s *ConfigStore) reload() (bool, error) {
	raw, err := s.readFile()
	if err != nil {
		return false, err
	}
	return s.replace(raw)
}

// refresh reloads after a change seen on disk. An empty file is a write in
// progress (truncate before write) and keeps the current data.
func (s *ConfigStore) refresh() (bool, error) {
	raw, err := s.readFile()
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		logger.Debug("config file empty, keeping current settings: %s", s.filePath)
		return false, nil
	}
	return s.replace(raw)
}

// readFile returns the file's bytes, or nil when it does not exist.
func (s *ConfigStore) readFile() ([]byte, error) {
	raw, err := os.ReadFile(s.filePath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return raw, nil
}

// replace parses raw and swaps it in as the current data.
func (s *ConfigStore) replace(raw []byte) (bool, error) {
	var loaded map[string]any
	if len(raw) > 0 {
		if err := toml.Unmarshal(raw, &loaded); err != nil {
			return false, fmt.Errorf("parse %s: %w", s.filePath, err)
		}
	}
	// Flatten nested maps into dot-notation keys for easier access
	flat := flattenMap(loaded, "")

	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := differs(s.data, flat)
	if err != nil {
		return false, err
	}
	s.data = flat
	return changed, nil
}

// differs compares two configurations by their TOML encoding, which
// normalises slice and integer types produced by decoding.
func differs(a, b map[string]any) (bool, error) {
	encA, err := toml.Marshal(a)
	if err != nil {
		return false, err
	}
	encB, err := toml.Marshal(b)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(encA, encB), nil
}

// FlattenMap converts nested maps to dot-notation keys.
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

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Subscribe registers fn to be called after every change.
func (s *ConfigStore) Subscribe(fn func()) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *ConfigStore) notify() {
	s.subsMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Watch reloads the configuration when the file changes on disk and notifies
// subscribers when its contents actually differ. Events are coalesced until
// the file has been quiet for WatchSettle. It blocks until ctx is done.
func (s *ConfigStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and save() replace the file by rename.
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	settle := time.NewTimer(WatchSettle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.filePath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settle.Reset(WatchSettle)

		case <-settle.C:
			changed, err := s.refresh()
			if err != nil {
				logger.Warn("config reload failed: %v", err)
				continue
			}
			if changed {
				logger.Debug("config changed on disk: %s", s.filePath)
				s.notify()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}
