package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"."}, cfg.ImportPaths)
	assert.Equal(t, DefaultHTTPTimeoutSeconds, cfg.HTTPTimeoutSeconds)
}

func TestLoadReturnsDefaultWhenNoFilePresent(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.rono")
	require.NoError(t, os.WriteFile(entry, []byte("chif main() {}"), 0o644))

	cfg, err := Load(entry)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsRonoYamlNextToEntry(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.rono")
	require.NoError(t, os.WriteFile(entry, []byte("chif main() {}"), 0o644))
	yaml := "importPaths:\n  - ./vendor\nhttpTimeoutSeconds: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rono.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"./vendor"}, cfg.ImportPaths)
	assert.Equal(t, 5, cfg.HTTPTimeoutSeconds)
}

func TestLoadFillsInDefaultsForZeroValues(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.rono")
	require.NoError(t, os.WriteFile(entry, []byte("chif main() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rono.yaml"), []byte("httpTimeoutSeconds: 0\n"), 0o644))

	cfg, err := Load(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, cfg.ImportPaths)
	assert.Equal(t, DefaultHTTPTimeoutSeconds, cfg.HTTPTimeoutSeconds)
}

func TestHTTPTimeoutConvertsSecondsToDuration(t *testing.T) {
	cfg := &Config{HTTPTimeoutSeconds: 7}
	assert.Equal(t, 7*time.Second, cfg.HTTPTimeout())
}
