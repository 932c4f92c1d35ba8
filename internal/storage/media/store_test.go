package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_Save(t *testing.T) {
	t.Parallel()

	store := NewDiskStore(t.TempDir())
	store.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	ref, err := store.Save(context.Background(), "photo.jpg", strings.NewReader("payload"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "deliveries/2026/03/01/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".jpg"), ref)

	data, err := os.ReadFile(filepath.Join(store.root, filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDiskStore_SaveNoExtension(t *testing.T) {
	t.Parallel()

	store := NewDiskStore(t.TempDir())

	ref, err := store.Save(context.Background(), "upload", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Empty(t, filepath.Ext(ref))
}

func TestDiskStore_UniqueNames(t *testing.T) {
	t.Parallel()

	store := NewDiskStore(t.TempDir())

	first, err := store.Save(context.Background(), "a.png", strings.NewReader("1"))
	require.NoError(t, err)
	second, err := store.Save(context.Background(), "a.png", strings.NewReader("2"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDiskStore_CancelledContext(t *testing.T) {
	t.Parallel()

	store := NewDiskStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, "a.png", strings.NewReader("1"))
	assert.ErrorIs(t, err, context.Canceled)
}
