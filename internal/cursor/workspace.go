package cursor

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the per-workspace directory Cursor owns.
	DirName = ".cursor"
	// HooksFileName is the hook registration file inside DirName.
	HooksFileName = "hooks.json"
)

// HooksPath returns the hooks.json path for a workspace root.
func HooksPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, DirName, HooksFileName)
}

// FindWorkspaceRoot walks up from start looking for a directory containing
// .cursor/ and returns it. When no ancestor has one, start itself is returned:
// installing there creates the .cursor directory.
func FindWorkspaceRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}
