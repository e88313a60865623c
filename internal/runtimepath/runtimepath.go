// Package runtimepath resolves the one filesystem location the daemon and
// its IPC clients must agree on without a config file: the socket. The
// fallback chain (XDG_RUNTIME_DIR, then /run/user/<uid>, then a created
// /tmp dir) stays hand-rolled since xdg has no runtime-dir API on
// non-systemd systems.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the runtime directory used for the daemon's IPC socket.
// Priority:
//  1. XDG_RUNTIME_DIR (if set)
//  2. /run/user/<uid> (if present)
//  3. /tmp/foliage-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/foliage-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon's IPC socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "foliage.sock"), nil
}
