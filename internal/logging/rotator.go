package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileRotator is an io.Writer over a log file that rolls the file over
// once it reaches Config.MaxSize. Rolled files are named <file>.1, <file>.2
// and so on, newest first, with a .gz suffix when compressed.
type FileRotator struct {
	path       string
	maxBytes   int64
	maxBackups int
	compress   bool

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewFileRotator opens cfg.FilePath for appending.
func NewFileRotator(cfg *Config) (*FileRotator, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	maxBytes := cfg.MaxSize * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	r := &FileRotator{
		path:       cfg.FilePath,
		maxBytes:   maxBytes,
		maxBackups: cfg.MaxBackups,
		compress:   cfg.Compress,
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRotator) open() error {
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	r.file = file
	r.size = info.Size()
	return nil
}

// Write implements io.Writer.
func (r *FileRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}

	if r.size > 0 && r.size+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			return 0, fmt.Errorf("rotate log: %w", err)
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// rotate shifts every backup up by one and starts a fresh file.
func (r *FileRotator) rotate() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("close current log: %w", err)
	}
	r.file = nil

	backups := r.backups()
	for i := len(backups) - 1; i >= 0; i-- {
		b := backups[i]
		if r.maxBackups > 0 && b.index >= r.maxBackups {
			os.Remove(b.path)
			continue
		}
		os.Rename(b.path, r.backupPath(b.index+1, b.gz))
	}

	first := r.backupPath(1, false)
	if err := os.Rename(r.path, first); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}
	if r.compress {
		if err := compressFile(first); err != nil {
			return err
		}
	}
	return r.open()
}

type backup struct {
	path  string
	index int
	gz    bool
}

func (r *FileRotator) backupPath(index int, gz bool) string {
	p := fmt.Sprintf("%s.%d", r.path, index)
	if gz {
		p += ".gz"
	}
	return p
}

// backups lists rolled files ordered by index.
func (r *FileRotator) backups() []backup {
	matches, _ := filepath.Glob(r.path + ".*")
	var out []backup
	for _, m := range matches {
		suffix := strings.TrimPrefix(m, r.path+".")
		gz := strings.HasSuffix(suffix, ".gz")
		suffix = strings.TrimSuffix(suffix, ".gz")
		var idx int
		if _, err := fmt.Sscanf(suffix, "%d", &idx); err != nil || idx < 1 || fmt.Sprint(idx) != suffix {
			continue
		}
		out = append(out, backup{path: m, index: idx, gz: gz})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

func compressFile(path string) error {
	input, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rotated log: %w", err)
	}
	defer input.Close()

	output, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("create compressed log: %w", err)
	}

	gz := gzip.NewWriter(output)
	gz.Name = filepath.Base(path)
	if _, err := io.Copy(gz, input); err != nil {
		gz.Close()
		output.Close()
		os.Remove(path + ".gz")
		return fmt.Errorf("compress log: %w", err)
	}
	if err := gz.Close(); err != nil {
		output.Close()
		os.Remove(path + ".gz")
		return fmt.Errorf("compress log: %w", err)
	}
	if err := output.Close(); err != nil {
		return fmt.Errorf("compress log: %w", err)
	}
	return os.Remove(path)
}

// Close closes the current file.
func (r *FileRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Sync flushes the current file.
func (r *FileRotator) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file != nil {
		return r.file.Sync()
	}
	return nil
}
