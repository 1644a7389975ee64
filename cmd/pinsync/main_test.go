package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pinsync/internal/adapters/config"
	"go.trai.ch/pinsync/internal/adapters/depsfile"
	"go.trai.ch/pinsync/internal/adapters/fs"
	"go.trai.ch/pinsync/internal/adapters/telemetry"
	"go.trai.ch/pinsync/internal/app"
	"go.trai.ch/pinsync/internal/core/domain"
	"go.trai.ch/pinsync/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const sourceDEPS = `vars = {
  "dart_git": "https://dart.googlesource.com/",
  "args_tag": "1.4.4",
  "async_tag": "@2.0.8",
}
`

const targetDEPS = `vars = {
  'dart_git': 'https://dart.googlesource.com',
  'dart_revision': '3f1b2c9d',

  'dart_args_tag': '1.4.3',
  'dart_async_tag': '2.0.7',

  'skia_revision': 'a3f4c1e2',
}
`

// newProvider wires real adapters around a mock logger.
func newProvider(t *testing.T, log *mocks.MockLogger) ComponentProvider {
	t.Helper()
	application := app.New(
		config.NewLoader(log),
		depsfile.NewLoader(),
		fs.NewStore(),
		fs.NewHasher(),
		log,
		telemetry.NewNoOpTracer(),
	)
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}
}

func writeTree(t *testing.T, source string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "dart", "DEPS")
	dst := filepath.Join(dir, "flutter", "DEPS")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), domain.DirPerm))
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), domain.DirPerm))
	require.NoError(t, os.WriteFile(src, []byte(source), domain.PrivateFilePerm))
	require.NoError(t, os.WriteFile(dst, []byte(targetDEPS), domain.PrivateFilePerm))
	return src, dst
}

func TestRun_Version(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), newProvider(t, log))
	assert.Equal(t, 0, exitCode)
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_Sync(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any())

	src, dst := writeTree(t, sourceDEPS)
	exitCode := run(context.Background(), []string{"-d", src, "-f", dst}, new(bytes.Buffer), newProvider(t, log))
	require.Equal(t, 0, exitCode)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(got), "  'dart_args_tag': '1.4.4',\n  'dart_async_tag': '2.0.8',\n")
	assert.Contains(t, string(got), "  'skia_revision': 'a3f4c1e2',\n")
	assert.NoFileExists(t, domain.StagedPath(dst))
}

func TestRun_MissingDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	// Reported once by the app, not again by run.
	log.EXPECT().Error(gomock.Any()).Times(1)

	src, dst := writeTree(t, "vars = {'args_tag': '1.4.4'}\n")
	exitCode := run(context.Background(), []string{"-d", src, "-f", dst}, new(bytes.Buffer), newProvider(t, log))
	assert.Equal(t, 1, exitCode)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, targetDEPS, string(got))

	staged, err := os.ReadFile(domain.StagedPath(dst))
	require.NoError(t, err)
	assert.Contains(t, string(staged), "  'dart_async_tag': '???',\n")
}

func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, domain.ErrManifestNotFound.Error())
	})

	dir := t.TempDir()
	exitCode := run(context.Background(), []string{"-d", filepath.Join(dir, "nope")}, new(bytes.Buffer), newProvider(t, log))
	assert.Equal(t, 1, exitCode)
}
