package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// LoadJSON reads testdata/<filename> next to this file and unmarshals it into
// target, failing the test on any error.
func LoadJSON(t testing.TB, filename string, target any) {
	t.Helper()

	_, currentFile, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(currentFile), "testdata")

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}
