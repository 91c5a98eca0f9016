package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	assert.False(t, IsFileExists(path))

	assert.Nil(t, os.WriteFile(path, []byte("{}"), 0o644))
	assert.True(t, IsFileExists(path))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "doc.json")

	assert.Nil(t, WriteFileAtomic(path, []byte(`{"a":1}`), 0o644))
	got, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	// overwrite in place
	assert.Nil(t, WriteFileAtomic(path, []byte(`{"a":2}`), 0o644))
	got, _ = os.ReadFile(path)
	assert.Equal(t, `{"a":2}`, string(got))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	assert.Nil(t, err)
	assert.Len(t, entries, 1)
}
