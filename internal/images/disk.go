package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DiskStore keeps images under a local directory and serves them from a
// static URL prefix.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("images/disk: mkdir %s: %w", dir, err)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *DiskStore) Put(ctx context.Context, fileName, contentType string, data []byte) (Image, error) {
	name := objectName(fileName, time.Now().UTC())

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return Image{}, fmt.Errorf("images/disk: write %s: %w", name, err)
	}

	return Image{
		ID:         name,
		URL:        s.baseURL + "/" + name,
		FileName:   name,
		Bytes:      int64(len(data)),
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (s *DiskStore) List(ctx context.Context) ([]Image, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("images/disk: read %s: %w", s.dir, err)
	}

	out := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Image{
			ID:         e.Name(),
			URL:        s.baseURL + "/" + e.Name(),
			FileName:   e.Name(),
			Bytes:      info.Size(),
			UploadedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (s *DiskStore) Delete(ctx context.Context, id string) error {
	// Reject path escapes; ids for this backend are bare file names.
	if id != filepath.Base(id) {
		return ErrNotFound
	}

	err := os.Remove(filepath.Join(s.dir, id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("images/disk: remove %s: %w", id, err)
	}
	return nil
}
