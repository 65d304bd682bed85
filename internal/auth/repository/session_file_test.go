package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
)

func TestSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	f := NewSessionFile(path)

	_, ok, err := f.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	id := domain.Identity{UID: "u1", Method: domain.MethodToken, SignedInAt: time.Unix(100, 0).UTC()}
	require.NoError(t, f.Save(id))

	got, ok, err := f.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, got)

	require.NoError(t, f.Clear())
	require.NoError(t, f.Clear())
	_, ok, err = f.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok, err := NewSessionFile(path).Load()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSessionFile_Disabled(t *testing.T) {
	var f *SessionFile
	require.NoError(t, f.Save(domain.Identity{UID: "x"}))
	_, ok, err := f.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, NewSessionFile("").Clear())
}
