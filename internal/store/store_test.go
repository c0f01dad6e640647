package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Enterzhang/novels2.0/internal/model"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	var tok string
	ok, err := s.Load(KeyToken, &tok)
	require.NoError(t, err)
	require.False(t, ok, "missing key must report ok=false without error")

	require.NoError(t, s.Save(KeyToken, "abc123"))
	ok, err = s.Load(KeyToken, &tok)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc123", tok)

	require.NoError(t, s.Delete(KeyToken))
	ok, err = s.Load(KeyToken, &tok)
	require.NoError(t, err)
	require.False(t, ok)

	// deleting again is fine
	require.NoError(t, s.Delete(KeyToken))
}

func TestFileStore_WholeValueReplace(t *testing.T) {
	s := NewFileStore(t.TempDir())

	first := model.ReaderSettings{FontSize: 14, LineHeight: 1.4, Theme: model.ThemeDark, LetterSpacing: 0.1}
	require.NoError(t, s.Save(KeyReaderSettings, first))

	second := model.DefaultReaderSettings()
	require.NoError(t, s.Save(KeyReaderSettings, second))

	var got model.ReaderSettings
	ok, err := s.Load(KeyReaderSettings, &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, second, got, "second save must fully replace the first")
}

func TestFileStore_Permissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewFileStore(dir)
	require.NoError(t, s.Save(KeyUser, map[string]string{"id": "u1"}))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	fi, err := os.Stat(filepath.Join(dir, KeyUser+".json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewFileStore(dir).Save(KeyUser, model.User{ID: "u1", Username: "alice"}))

	var u model.User
	ok, err := NewFileStore(dir).Load(KeyUser, &u)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", u.Username)
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Save(KeyToken, "t"))
	var tok string
	ok, err := s.Load(KeyToken, &tok)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t", tok)
	require.NoError(t, s.Delete(KeyToken))
	require.Empty(t, s.Keys())
}
