package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBeginRun_AssignsID(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.BeginRun(config.Default())
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
}

func TestRecordArtifact_AndClean(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.BeginRun(config.Default())
	require.NoError(t, err)

	dir := t.TempDir()
	objPath := filepath.Join(dir, "main.o")
	require.NoError(t, os.WriteFile(objPath, []byte("obj"), 0o644))

	require.NoError(t, s.RecordArtifact(runID, "main", KindObject, objPath, 3))

	removed, err := s.Clean(KindObject)
	require.NoError(t, err)
	assert.Equal(t, []string{objPath}, removed)

	_, statErr := os.Stat(objPath)
	assert.True(t, os.IsNotExist(statErr))

	removedAgain, err := s.Clean(KindObject)
	require.NoError(t, err)
	assert.Empty(t, removedAgain)
}

func TestClean_MissingFileIsNotAnError(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.BeginRun(config.Default())
	require.NoError(t, err)

	require.NoError(t, s.RecordArtifact(runID, "main", KindLLVMIR, "/no/such/file.ll", 0))

	removed, err := s.Clean(KindLLVMIR)
	require.NoError(t, err)
	assert.Equal(t, []string{"/no/such/file.ll"}, removed)
}
