package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Persistence is the durable key-value store behind the session: two string
// entries, a serialized user snapshot and a literal authenticated flag.
// Get returns "" for an absent key.
type Persistence interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// FilePersistence keeps the session entries in a single JSON file. Access
// is synchronous; a mutex guards concurrent console requests.
type FilePersistence struct {
	path string
	mu   sync.Mutex
}

func NewFilePersistence(path string) (*FilePersistence, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &FilePersistence{path: path}, nil
}

func (p *FilePersistence) Get(key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.read()
	if err != nil {
		return "", err
	}
	return entries[key], nil
}

func (p *FilePersistence) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.read()
	if err != nil {
		return err
	}
	entries[key] = value
	return p.write(entries)
}

func (p *FilePersistence) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.read()
	if err != nil {
		return err
	}
	delete(entries, key)
	return p.write(entries)
}

func (p *FilePersistence) read() (map[string]string, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		// A mangled file behaves like an empty store; CheckAuth then
		// clears the inconsistent state via logout.
		return map[string]string{}, nil
	}
	return entries, nil
}

func (p *FilePersistence) write(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal session entries: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
