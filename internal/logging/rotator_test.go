package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRotatorAppendsToExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, logFileName), []byte("first\n"), 0600))

	r, err := NewLogRotator(dir)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("second\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestLogRotatorPruneKeepsNewestBackups(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(dir)
	require.NoError(t, err)
	defer r.Close()

	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	base := time.Now().Add(-time.Hour)
	for i, n := range names {
		path := filepath.Join(dir, logFileName+"."+n)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
		ts := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, ts, ts))
	}

	r.prune()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups []string
	for _, e := range entries {
		if e.Name() != logFileName {
			backups = append(backups, e.Name())
		}
	}
	assert.Len(t, backups, logMaxBackups)
	assert.NotContains(t, backups, logFileName+".a", "oldest backups go first")
	assert.NotContains(t, backups, logFileName+".b")
}

func TestLogRotatorPruneDropsExpiredBackups(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(dir)
	require.NoError(t, err)
	defer r.Close()

	stale := filepath.Join(dir, logFileName+".old")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0600))
	expired := time.Now().Add(-logMaxAge - time.Hour)
	require.NoError(t, os.Chtimes(stale, expired, expired))

	r.prune()

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}
