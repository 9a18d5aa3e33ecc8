package reliability

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/database"
)

type fakeStore struct {
	uploads map[string][]byte
	objects []ObjectInfo
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for key, data := range f.uploads {
		if strings.HasPrefix(key, prefix) {
			out = append(out, ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	for _, obj := range f.objects {
		if strings.HasPrefix(obj.Key, prefix) {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestDatabase(t *testing.T, dir, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(dir, name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE samples (id INTEGER PRIMARY KEY, label TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO samples (label) VALUES ('a'), ('b')`)
	require.NoError(t, err)
	return db
}

func TestBackupUploadsArchive(t *testing.T) {
	dir := t.TempDir()
	db := newTestDatabase(t, dir, "finsight")
	store := newFakeStore()

	svc := NewBackupService(map[string]*database.DB{"finsight": db}, store, dir, "backups/", zerolog.Nop())
	require.NoError(t, svc.Backup(context.Background()))

	require.Len(t, store.uploads, 1)
	for key, data := range store.uploads {
		assert.True(t, strings.HasPrefix(key, "backups/finsight-backup-"))
		assert.True(t, strings.HasSuffix(key, ".tar.gz"))

		names := archiveEntries(t, data)
		assert.Contains(t, names, "finsight.db")
		assert.Contains(t, names, "backup-metadata.json")
	}
}

func TestListBackupsParsesTimestamps(t *testing.T) {
	store := newFakeStore()
	store.objects = []ObjectInfo{
		{Key: "backups/finsight-backup-2024-06-01-220000.tar.gz", Size: 100},
		{Key: "backups/finsight-backup-2024-06-03-220000.tar.gz", Size: 120},
		{Key: "backups/unrelated.txt", Size: 5},
	}

	svc := NewBackupService(nil, store, t.TempDir(), "backups/", zerolog.Nop())
	backups, err := svc.ListBackups(context.Background())
	require.NoError(t, err)

	require.Len(t, backups, 2)
	assert.Equal(t, "finsight-backup-2024-06-03-220000.tar.gz", backups[0].Filename)
	assert.Equal(t, time.Date(2024, 6, 3, 22, 0, 0, 0, time.UTC), backups[0].Timestamp)
}

func TestRotateKeepsNewestThree(t *testing.T) {
	store := newFakeStore()
	for _, stamp := range []string{
		"2024-06-05-220000",
		"2024-06-04-220000",
		"2024-06-03-220000",
		"2023-01-02-220000",
		"2023-01-01-220000",
	} {
		store.objects = append(store.objects, ObjectInfo{
			Key: "finsight-backup-" + stamp + ".tar.gz",
		})
	}

	svc := NewBackupService(nil, store, t.TempDir(), "", zerolog.Nop())
	require.NoError(t, svc.RotateOldBackups(context.Background(), 30))

	assert.ElementsMatch(t, []string{
		"finsight-backup-2023-01-02-220000.tar.gz",
		"finsight-backup-2023-01-01-220000.tar.gz",
	}, store.deleted)
}

func TestRotateZeroRetentionKeepsEverything(t *testing.T) {
	store := newFakeStore()
	for _, stamp := range []string{
		"2024-06-05-220000",
		"2023-01-02-220000",
		"2023-01-01-220000",
		"2022-01-01-220000",
	} {
		store.objects = append(store.objects, ObjectInfo{
			Key: "finsight-backup-" + stamp + ".tar.gz",
		})
	}

	svc := NewBackupService(nil, store, t.TempDir(), "", zerolog.Nop())
	require.NoError(t, svc.RotateOldBackups(context.Background(), 0))
	assert.Empty(t, store.deleted)
}

func archiveEntries(t *testing.T, data []byte) []string {
	t.Helper()

	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)
	}
	return names
}
