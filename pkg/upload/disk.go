package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DiskStore stores uploads in a local directory.
type DiskStore struct {
	dir     string
	maxSize int64
	now     func() time.Time

	mu    sync.RWMutex
	files map[string]*diskMeta
}

type diskMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

const metaSuffix = ".meta"

// NewDiskStore creates dir if needed and returns a store writing into it.
// A maxSize of 0 disables the size limit.
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:     dir,
		maxSize: maxSize,
		now:     time.Now,
		files:   make(map[string]*diskMeta),
	}, nil
}

// Dir returns the storage directory.
func (s *DiskStore) Dir() string { return s.dir }

// Save stores the file and returns a temp ID.
func (s *DiskStore) Save(ctx context.Context, meta Meta, r io.Reader) (string, error) {
	if s.maxSize > 0 && meta.Size > s.maxSize {
		return "", ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tempID := uuid.NewString()
	path := s.path(tempID)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	reader := r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1)
	}
	written, err := io.Copy(f, reader)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(path)
		return "", ErrTooLarge
	}

	dm := &diskMeta{
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Size:        written,
		CreatedAt:   s.now(),
	}
	if err := s.saveMeta(tempID, dm); err != nil {
		os.Remove(path)
		return "", err
	}

	s.mu.Lock()
	s.files[tempID] = dm
	s.mu.Unlock()

	return tempID, nil
}

// Claim opens a temp file. The file and its sidecar are deleted on Close.
func (s *DiskStore) Claim(ctx context.Context, tempID string) (*File, error) {
	if !validID(tempID) {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	meta, ok := s.files[tempID]
	if ok {
		delete(s.files, tempID)
	}
	s.mu.Unlock()

	if !ok {
		var err error
		meta, err = s.loadMeta(tempID)
		if err != nil {
			return nil, ErrNotFound
		}
	}

	path := s.path(tempID)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &File{
		ID:          tempID,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		Path:        path,
		Reader:      &deleteOnCloseReader{File: f, path: path, metaPath: s.metaPath(tempID)},
	}, nil
}

// Cleanup removes files older than maxAge, including orphans left by a
// previous process.
func (s *DiskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	for tempID, meta := range s.files {
		if meta.CreatedAt.Before(cutoff) {
			delete(s.files, tempID)
			os.Remove(s.path(tempID))
			os.Remove(s.metaPath(tempID))
		}
	}
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
	return nil
}

func (s *DiskStore) path(tempID string) string {
	return filepath.Join(s.dir, tempID)
}

func (s *DiskStore) metaPath(tempID string) string {
	return filepath.Join(s.dir, tempID+metaSuffix)
}

func (s *DiskStore) saveMeta(tempID string, meta *diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(tempID), data, 0o644)
}

func (s *DiskStore) loadMeta(tempID string) (*diskMeta, error) {
	data, err := os.ReadFile(s.metaPath(tempID))
	if err != nil {
		return nil, err
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// validID rejects anything that is not a UUID so temp IDs cannot escape
// the storage directory.
func validID(tempID string) bool {
	if strings.ContainsAny(tempID, `/\`) {
		return false
	}
	_, err := uuid.Parse(tempID)
	return err == nil
}

type deleteOnCloseReader struct {
	*os.File
	path     string
	metaPath string
}

func (r *deleteOnCloseReader) Close() error {
	err := r.File.Close()
	os.Remove(r.path)
	os.Remove(r.metaPath)
	return err
}
