package statestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// KV is a small persistent key-value hierarchy. Keys are slash-separated
// paths; DeleteTree removes every key under a namespace prefix. The
// abstraction lets the installer target any host store (registry, config
// file, keychain) without changing the orchestration above it.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	DeleteTree(namespace string) error
}

// fileKV is a JSON-document-backed KV store. Writes go through a temp
// file and rename so a crash mid-write never corrupts the document.
type fileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV returns a KV backed by a JSON document at path. The file is
// created lazily on first Set.
func NewFileKV(path string) KV {
	return &fileKV{path: path}
}

func (s *fileKV) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *fileKV) save(m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	// CreateTemp yields 0600; the document is world-readable state.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

func (s *fileKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *fileKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return s.save(m)
}

func (s *fileKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save(m)
}

func (s *fileKV) DeleteTree(namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	prefix := strings.TrimSuffix(namespace, "/") + "/"
	changed := false
	for k := range m {
		if strings.HasPrefix(k, prefix) || k == namespace {
			delete(m, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(m)
}
