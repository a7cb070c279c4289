package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// ErrClosed is returned by Sync and Watch after Close.
var ErrClosed = errors.New("settings: store closed")

// Store is a file-backed preference store. It is safe for concurrent use.
type Store struct {
	path   string
	format string
	logger *slog.Logger

	mu      sync.Mutex
	values  map[string]interface{}
	pending map[string]interface{}
	modTime time.Time
	size    int64
	closed  bool

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// Open opens the store at path. A missing file is an empty store; it is
// created on the first Sync.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:    path,
		format:  formatForPath(path),
		logger:  logger,
		values:  make(map[string]interface{}),
		pending: make(map[string]interface{}),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// load replaces the cached values with the file contents. Caller holds mu
// or has exclusive access.
func (s *Store) load() error {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		s.values = make(map[string]interface{})
		s.modTime, s.size = time.Time{}, 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat settings: %w", err)
	}

	tree, err := readTree(s.path, s.format)
	if err != nil {
		return err
	}
	s.values = make(map[string]interface{})
	flatten("", tree, s.values)
	s.modTime, s.size = info.ModTime(), info.Size()
	return nil
}

// refresh reloads the file when its modification time or size changed.
// A file that fails to parse keeps the previous values.
func (s *Store) refresh() {
	info, err := os.Stat(s.path)
	switch {
	case os.IsNotExist(err):
		if !s.modTime.IsZero() {
			s.values = make(map[string]interface{})
			s.modTime, s.size = time.Time{}, 0
		}
		return
	case err != nil:
		s.logger.Warn("stat settings failed", "path", s.path, "error", err)
		return
	}
	if info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return
	}
	if err := s.load(); err != nil {
		s.logger.Warn("reload settings failed", "path", s.path, "error", err)
	}
}

func (s *Store) value(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.pending[key]; ok {
		return v, true
	}
	s.refresh()
	v, ok := s.values[key]
	return v, ok
}

// Bool returns the boolean at key, or def when it is missing or not a
// boolean. String values such as "true" and "false" are accepted.
func (s *Store) Bool(key string, def bool) bool {
	v, ok := s.value(key)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return def
}

// String returns the string at key, or def when it is missing.
func (s *Store) String(key, def string) string {
	v, ok := s.value(key)
	if !ok {
		return def
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Set stores value under key. It is visible to reads immediately and
// written to disk by the next Sync.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[key] = value
}

// Sync writes pending values to the file. Concurrent writers are
// serialized with an exclusive lock on a sibling .lock file, and changes
// made on disk by another process since the last read are preserved.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.syncLocked()
}

func (s *Store) syncLocked() error {
	if len(s.pending) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	lock, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open settings lock: %w", err)
	}
	defer lock.Close()
	if err := lockFile(lock); err != nil {
		return fmt.Errorf("lock settings: %w", err)
	}
	defer unlockFile(lock)

	if err := s.load(); err != nil {
		return err
	}
	for k, v := range s.pending {
		s.values[k] = v
	}

	data, err := encodeTree(unflatten(s.values), s.format)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace settings: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil {
		s.modTime, s.size = info.ModTime(), info.Size()
	}
	s.pending = make(map[string]interface{})
	s.logger.Debug("settings written", "path", s.path)
	return nil
}

// Close flushes pending values and stops the watcher.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	err := s.syncLocked()
	s.closed = true
	watcher, done := s.watcher, s.done
	s.watcher, s.done = nil, nil
	s.mu.Unlock()

	if watcher != nil {
		close(done)
		if werr := watcher.Close(); err == nil {
			err = werr
		}
		s.wg.Wait()
	}
	return err
}

// Keys returns every key currently set, sorted.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh()
	seen := make(map[string]bool, len(s.values)+len(s.pending))
	for k := range s.values {
		seen[k] = true
	}
	for k := range s.pending {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func readTree(path, format string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	tree := make(map[string]interface{})
	switch format {
	case "json":
		err = json.Unmarshal(data, &tree)
	case "yaml":
		err = yaml.Unmarshal(data, &tree)
	default:
		_, err = toml.Decode(string(data), &tree)
	}
	if err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", path, err)
	}
	return tree, nil
}

func encodeTree(tree map[string]interface{}, format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(tree, "", "  ")
	case "yaml":
		return yaml.Marshal(tree)
	default:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tree); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// flatten turns nested tables into slash-joined keys.
func flatten(prefix string, tree map[string]interface{}, out map[string]interface{}) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "/" + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			flatten(key, sub, out)
			continue
		}
		out[key] = v
	}
}

// unflatten is the inverse of flatten. A leaf that collides with a table
// of the same name is replaced by the table.
func unflatten(values map[string]interface{}) map[string]interface{} {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tree := make(map[string]interface{})
	for _, key := range keys {
		parts := strings.Split(key, "/")
		m := tree
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]interface{})
			if !ok {
				next = make(map[string]interface{})
				m[p] = next
			}
			m = next
		}
		leaf := parts[len(parts)-1]
		if _, isTable := m[leaf].(map[string]interface{}); isTable {
			continue
		}
		m[leaf] = values[key]
	}
	return tree
}
