package patcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pinsync/internal/core/domain"
	"go.trai.ch/pinsync/internal/engine/patcher"
)

func manifest(vars map[string]any) *domain.Manifest {
	m := domain.NewManifest("DEPS")
	for k, v := range vars {
		m.Vars[k] = v
	}
	return m
}

// flutterVars mirrors the vars block of testdata/flutter_deps.in.
func flutterVars() *domain.Manifest {
	return manifest(map[string]any{
		"chromium_git":        "https://chromium.googlesource.com",
		"dart_git":            "https://dart.googlesource.com",
		"skia_revision":       "a3f4c1e2",
		"dart_revision":       "3f1b2c9d",
		"dart_args_tag":       "1.4.3",
		"dart_zlib_rev":       "old",
		"dart_async_tag":      "2.0.7",
		"buildtools_revision": "c1408453",
	})
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "flutter_deps.in"))
	require.NoError(t, err)
	return data
}

func TestPatcher_Plan(t *testing.T) {
	target := manifest(map[string]any{
		"dart_zeta":     "z",
		"dart_x":        "old",
		"dart_revision": "r",
		"dart_git":      "g",
		"skia_revision": "s",
		"dart_alpha":    "a",
	})
	source := manifest(map[string]any{
		"x":        "@abc123",
		"alpha":    "1.0.0",
		"zeta":     "@@double",
		"revision": "must-not-be-used",
		"git":      "must-not-be-used",
	})

	plan, err := patcher.New(nil).Plan(target, source)
	require.NoError(t, err)

	assert.Equal(t, []domain.PinUpdate{
		{Key: "dart_alpha", Value: "1.0.0"},
		{Key: "dart_x", Value: "abc123"},
		{Key: "dart_zeta", Value: "@double"},
	}, plan.Updates)
	assert.Empty(t, plan.Missing)
	assert.True(t, plan.Complete())
}

func TestPatcher_Plan_Missing(t *testing.T) {
	target := manifest(map[string]any{
		"dart_x": "old",
		"dart_y": "old",
	})
	source := manifest(map[string]any{
		"x": "@abc123",
	})

	plan, err := patcher.New(nil).Plan(target, source)
	require.NoError(t, err)

	assert.Equal(t, []domain.PinUpdate{
		{Key: "dart_x", Value: "abc123"},
		{Key: "dart_y", Value: "???", Missing: true},
	}, plan.Updates)
	assert.Equal(t, []string{"dart_y"}, plan.Missing)
	assert.False(t, plan.Complete())
}

func TestPatcher_Plan_NonStringPin(t *testing.T) {
	target := manifest(map[string]any{"dart_checkout": "x"})
	source := manifest(map[string]any{"checkout": true})

	plan, err := patcher.New(nil).Plan(target, source)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.ErrorContains(t, err, domain.ErrPinNotString.Error())
}

func TestPatcher_Plan_CustomSettings(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Prefix = "skia_"
	settings.Exclude = nil
	settings.Placeholder = "MISSING"

	target := manifest(map[string]any{
		"skia_revision": "old",
		"skia_tools":    "old",
		"dart_x":        "old",
	})
	source := manifest(map[string]any{"revision": "@new"})

	plan, err := patcher.New(settings).Plan(target, source)
	require.NoError(t, err)

	assert.Equal(t, []domain.PinUpdate{
		{Key: "skia_revision", Value: "new"},
		{Key: "skia_tools", Value: "MISSING", Missing: true},
	}, plan.Updates)
}

func TestPatcher_Rewrite_Golden(t *testing.T) {
	source := manifest(map[string]any{
		"args_tag":  "1.4.4",
		"async_tag": "@2.0.8",
		"zlib_rev":  "c3d0a6190f2f8c924a05ab6cc97b8f975bddd33f",
	})

	p := patcher.New(nil)
	plan, err := p.Plan(flutterVars(), source)
	require.NoError(t, err)

	out, found := p.Rewrite(readFixture(t), plan)
	require.True(t, found)

	g := goldie.New(t)
	g.Assert(t, "rewrite", out)
}

func TestPatcher_Rewrite_Missing_Golden(t *testing.T) {
	source := manifest(map[string]any{
		"args_tag":  "1.4.4",
		"async_tag": "@2.0.8",
	})

	p := patcher.New(nil)
	plan, err := p.Plan(flutterVars(), source)
	require.NoError(t, err)
	assert.Equal(t, []string{"dart_zlib_rev"}, plan.Missing)

	out, found := p.Rewrite(readFixture(t), plan)
	require.True(t, found)

	g := goldie.New(t)
	g.Assert(t, "rewrite_missing", out)
}

func TestPatcher_Rewrite_Idempotent(t *testing.T) {
	source := manifest(map[string]any{
		"args_tag":  "1.4.4",
		"async_tag": "@2.0.8",
		"zlib_rev":  "c3d0a6190f2f8c924a05ab6cc97b8f975bddd33f",
	})

	p := patcher.New(nil)
	plan, err := p.Plan(flutterVars(), source)
	require.NoError(t, err)

	first, _ := p.Rewrite(readFixture(t), plan)
	second, _ := p.Rewrite(first, plan)
	assert.Equal(t, string(first), string(second))
}

func TestPatcher_Rewrite_PreservesOutsideBlock(t *testing.T) {
	content := "header\r\n" +
		"  'dart_revision': 'r',\n" +
		"\n" +
		"  'dart_a': 'old',\n" +
		"\n" +
		"  'dart_revision': 'second marker is copied',\n" +
		"trailer without newline"
	plan := &domain.Plan{Updates: []domain.PinUpdate{{Key: "dart_a", Value: "new"}}}

	settings := domain.DefaultSettings()
	settings.Warning = []string{"  # generated"}

	out, found := patcher.New(settings).Rewrite([]byte(content), plan)
	require.True(t, found)

	want := "header\r\n" +
		"  'dart_revision': 'r',\n" +
		"\n" +
		"  # generated\n" +
		"  'dart_a': 'new',\n" +
		"\n" +
		"  'dart_revision': 'second marker is copied',\n" +
		"trailer without newline"
	assert.Equal(t, want, string(out))
}

func TestPatcher_Rewrite_MarkerNotFound(t *testing.T) {
	content := []byte("vars = {\n  'dart_a': 'old',\n}\n")
	plan := &domain.Plan{Updates: []domain.PinUpdate{{Key: "dart_a", Value: "new"}}}

	out, found := patcher.New(nil).Rewrite(content, plan)
	assert.False(t, found)
	assert.Equal(t, string(content), string(out))
}

func TestPatcher_Rewrite_MarkerAtEOF(t *testing.T) {
	content := []byte("vars = {\n  'dart_revision': 'r',")
	plan := &domain.Plan{Updates: []domain.PinUpdate{{Key: "dart_a", Value: "new"}}}

	settings := domain.DefaultSettings()
	settings.Warning = nil

	out, found := patcher.New(settings).Rewrite(content, plan)
	require.True(t, found)
	assert.Equal(t, "vars = {\n  'dart_revision': 'r',\n  'dart_a': 'new',\n\n", string(out))
}

func TestPatcher_Block(t *testing.T) {
	plan := &domain.Plan{Updates: []domain.PinUpdate{
		{Key: "dart_x", Value: "abc123"},
	}}

	block := patcher.New(nil).Block(plan)
	assert.Contains(t, block, "  'dart_x': 'abc123',\n")
	assert.Contains(t, block, "DO NOT EDIT MANUALLY")
}
