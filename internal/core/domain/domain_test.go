package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pinsync/internal/core/domain"
)

func TestManifest_Pins(t *testing.T) {
	m := domain.NewManifest("DEPS")
	m.Vars["dart_args_tag"] = "1.4.4"
	m.Vars["checkout_llvm"] = false
	m.Vars["hooks_count"] = int64(3)

	pins := m.Pins()
	assert.Equal(t, map[string]string{"dart_args_tag": "1.4.4"}, pins)
}

func TestManifest_KeysWithPrefix(t *testing.T) {
	m := domain.NewManifest("DEPS")
	m.Vars["dart_zlib_rev"] = "z"
	m.Vars["skia_revision"] = "s"
	m.Vars["dart_async_tag"] = "a"

	assert.Equal(t, []string{"dart_async_tag", "dart_zlib_rev"}, m.KeysWithPrefix("dart_"))
}

func TestManifest_NilSafe(t *testing.T) {
	var m *domain.Manifest

	_, ok := m.Lookup("x")
	assert.False(t, ok)
	assert.Empty(t, m.Pins())
	assert.Nil(t, m.KeysWithPrefix("dart_"))
}

func TestSettings_Defaults(t *testing.T) {
	s := domain.DefaultSettings()

	assert.Equal(t, filepath.Join("third_party", "dart", "DEPS"), s.Source)
	assert.Equal(t, filepath.Join("flutter", "DEPS"), s.Target)
	assert.True(t, s.Excluded("dart_revision"))
	assert.True(t, s.Excluded("dart_git"))
	assert.False(t, s.Excluded("dart_args_tag"))
	assert.Len(t, s.Warning, 2)
}

func TestPlan_Complete(t *testing.T) {
	p := &domain.Plan{}
	assert.True(t, p.Complete())

	p.Missing = []string{"dart_y"}
	assert.False(t, p.Complete())
}

func TestStagedPath(t *testing.T) {
	assert.Equal(t, "flutter/DEPS.new", domain.StagedPath("flutter/DEPS"))
}
