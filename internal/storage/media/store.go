package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store persists uploaded media and returns a retrievable reference.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// DiskStore writes media files under a local root directory, partitioned by
// upload date: deliveries/YYYY/MM/DD/<uuid><ext>.
type DiskStore struct {
	root string
	now  func() time.Time
}

// NewDiskStore creates a DiskStore rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{
		root: dir,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Save streams the upload to disk and returns its reference relative to the
// store root. The original filename only contributes its extension; object
// names are random so uploads never collide or overwrite each other.
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	day := s.now()
	rel := path.Join("deliveries", day.Format("2006/01/02"))
	dir := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.New().String() + path.Ext(filename)
	dst := filepath.Join(dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close media file: %w", err)
	}

	return path.Join(rel, name), nil
}

var _ Store = (*DiskStore)(nil)
