package metadata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createFiles creates every file under root, each holding its own relative name.
func createFiles(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, name := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
	}
}
