package calibdb

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

const testDescriptor = "version: v1.2.0\ninstrument: SPECTRO-1\n"

// newIndexDir creates a git working copy holding the given table and
// descriptor and returns its path.
func newIndexDir(t *testing.T, csv, descriptor string) string {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	writeIndexFiles(t, dir, csv, descriptor)
	return dir
}

func writeIndexFiles(t *testing.T, dir, csv, descriptor string) {
	t.Helper()
	if csv != "" {
		writeFile(t, filepath.Join(dir, TableFile), []byte(csv))
	}
	if descriptor != "" {
		writeFile(t, filepath.Join(dir, DescriptorFile), []byte(descriptor))
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func float32LE(values ...float32) []byte {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newRemoteRepo creates a repository with the table and descriptor committed,
// suitable as a clone source.
func newRemoteRepo(t *testing.T, csv, descriptor string) string {
	t.Helper()
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	writeIndexFiles(t, dir, csv, descriptor)

	w, err := r.Worktree()
	require.NoError(t, err)
	for _, name := range []string{TableFile, DescriptorFile} {
		_, err := w.Add(name)
		require.NoError(t, err)
	}
	_, err = w.Commit("add calibration index", &git.CommitOptions{
		Author: &object.Signature{Name: "calibdb", Email: "calibdb@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}
