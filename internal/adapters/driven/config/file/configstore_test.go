package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("test_key", "test_value"))

	val, ok := store.Get("test_key")
	assert.True(t, ok)
	assert.Equal(t, "test_value", val)
}

func TestConfigStore_GetString(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(driven.ConfigKeyAPIKey, "sk-test"))

	assert.Equal(t, "sk-test", store.GetString(driven.ConfigKeyAPIKey))
	assert.Empty(t, store.GetString("missing"))

	require.NoError(t, store.Set("number", 42))
	assert.Empty(t, store.GetString("number"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("int_key", 15))

	assert.Equal(t, 15, store.GetInt("int_key"))
	assert.Zero(t, store.GetInt("missing"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(driven.ConfigKeyClusterThreshold, 250.5))
	assert.InDelta(t, 250.5, store.GetFloat(driven.ConfigKeyClusterThreshold), 1e-9)

	// Integers are accepted where a float is asked for.
	require.NoError(t, store.Set("whole", 200))
	assert.InDelta(t, 200.0, store.GetFloat("whole"), 1e-9)
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("flag", true))

	assert.True(t, store.GetBool("flag"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(driven.ConfigKeyAPIKey, "sk-persisted"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "sk-persisted", reopened.GetString(driven.ConfigKeyAPIKey))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[provider]\napi_key = \"sk-nested\"\n\n[index]\ncluster_threshold = 300.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "sk-nested", store.GetString(driven.ConfigKeyAPIKey))
	assert.InDelta(t, 300.0, store.GetFloat(driven.ConfigKeyClusterThreshold), 1e-9)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
