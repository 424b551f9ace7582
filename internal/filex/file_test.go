package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"host":"10.0.0.1","port":"9999"}`), 0o600))

	var got struct {
		Host string `json:"host"`
		Port string `json:"port"`
	}
	require.NoError(t, LoadJSON(path, &got))
	assert.Equal(t, "10.0.0.1", got.Host)
	assert.Equal(t, "9999", got.Port)
}

func TestLoadJSON_MissingFile(t *testing.T) {
	var got map[string]any
	assert.Error(t, LoadJSON(filepath.Join(t.TempDir(), "nope.json"), &got))
}

func TestLoadJSON_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	var got map[string]any
	assert.Error(t, LoadJSON(path, &got))
}
