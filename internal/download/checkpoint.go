package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// State is the set of instrument keys whose download has completed.
type State struct {
	order []string
	seen  map[string]struct{}
}

// NewState returns a State holding keys in the given order.
func NewState(keys ...string) *State {
	s := &State{seen: make(map[string]struct{})}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Has reports whether key is complete.
func (s *State) Has(key string) bool {
	_, ok := s.seen[key]
	return ok
}

// Add marks key complete. Re-adding is a no-op.
func (s *State) Add(key string) {
	if key == "" || s.Has(key) {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
}

// Keys returns completed keys in completion order.
func (s *State) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len is the number of completed keys.
func (s *State) Len() int { return len(s.order) }

type stateFile struct {
	Completed []string `json:"completed"`
}

// Checkpoint persists State as {"completed": [...]} at a fixed path.
type Checkpoint struct {
	path string
}

// NewCheckpoint returns a checkpoint stored at path.
func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{path: path}
}

// Path is the checkpoint file location.
func (c *Checkpoint) Path() string { return c.path }

// Load reads the checkpoint. A missing file yields an empty State and no error;
// an unreadable or corrupt file yields an empty State and the error.
func (c *Checkpoint) Load() (*State, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewState(), nil
	}
	if err != nil {
		return NewState(), fmt.Errorf("read checkpoint %s: %w", c.path, err)
	}
	var f stateFile
	if err := sonic.Unmarshal(data, &f); err != nil {
		return NewState(), fmt.Errorf("decode checkpoint %s: %w", c.path, err)
	}
	return NewState(f.Completed...), nil
}

// Save rewrites the whole checkpoint through a temp file and rename.
func (c *Checkpoint) Save(s *State) error {
	data, err := sonic.Marshal(stateFile{Completed: s.Keys()})
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}

// Archive moves a finished checkpoint aside as <path>.<YYYYMMDD-HHMMSS>.done.
func (c *Checkpoint) Archive(now time.Time) (string, error) {
	dst := fmt.Sprintf("%s.%s.done", c.path, now.Format("20060102-150405"))
	if err := os.Rename(c.path, dst); err != nil {
		return "", fmt.Errorf("archive checkpoint: %w", err)
	}
	return dst, nil
}
