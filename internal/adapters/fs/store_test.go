package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pinsync/internal/adapters/fs"
	"go.trai.ch/pinsync/internal/core/domain"
)

func TestStore_StageAndPromote(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "DEPS")
	require.NoError(t, os.WriteFile(target, []byte("old\n"), domain.FilePerm))

	store := fs.NewStore()

	staged, err := store.Stage(target, []byte("new\n"))
	require.NoError(t, err)
	assert.Equal(t, target+".new", staged)

	// The target is untouched until promotion.
	data, err := store.Read(target)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))

	info, err := os.Stat(staged)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.FilePerm), info.Mode().Perm())

	require.NoError(t, store.Promote(staged, target))

	data, err = store.Read(target)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Stage_KeepsTargetMode(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "DEPS")
	require.NoError(t, os.WriteFile(target, []byte("old\n"), domain.PrivateFilePerm))

	staged, err := fs.NewStore().Stage(target, []byte("new\n"))
	require.NoError(t, err)

	info, err := os.Stat(staged)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.PrivateFilePerm), info.Mode().Perm())
}

func TestStore_Read_NotFound(t *testing.T) {
	_, err := fs.NewStore().Read(filepath.Join(t.TempDir(), "DEPS"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrManifestNotFound.Error())
}

func TestStore_Stage_Failure(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing-dir", "DEPS")

	_, err := fs.NewStore().Stage(target, []byte("x"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStageWriteFailed.Error())
}

func TestStore_Promote_Failure(t *testing.T) {
	dir := t.TempDir()

	err := fs.NewStore().Promote(filepath.Join(dir, "absent.new"), filepath.Join(dir, "DEPS"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrPromoteFailed.Error())
}

func TestStore_Discard(t *testing.T) {
	dir := t.TempDir()
	staged := filepath.Join(dir, "DEPS.new")
	require.NoError(t, os.WriteFile(staged, []byte("x"), domain.PrivateFilePerm))

	store := fs.NewStore()
	require.NoError(t, store.Discard(staged))
	require.NoError(t, store.Discard(staged))

	_, err := os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}
