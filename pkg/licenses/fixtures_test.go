package licenses

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeProject creates a project with the given manifest and per-package
// metadata documents; a nil packages map skips node_modules entirely.
func writeProject(t *testing.T, manifest string, packages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o600))
	}
	if packages == nil {
		return dir
	}
	modules := filepath.Join(dir, "node_modules")
	require.NoError(t, os.MkdirAll(modules, 0o755))
	for name, metadata := range packages {
		pkgDir := filepath.Join(modules, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(pkgDir, 0o755))
		if metadata != "" {
			require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(metadata), 0o600))
		}
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
