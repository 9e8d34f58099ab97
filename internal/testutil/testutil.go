// Package testutil provides testing utilities for olatui tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// SnapshotRoot is where SetupSnapshot places the snapshot.
const SnapshotRoot = "/snap"

// SetupSnapshot creates an in-memory snapshot at SnapshotRoot. The files
// map holds paths relative to the snapshot root and their contents.
func SetupSnapshot(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(SnapshotRoot, 0755); err != nil {
		t.Fatalf("failed to create snapshot root: %v", err)
	}
	WriteFiles(t, fs, SnapshotRoot, files)
	return fs
}

// SetupSnapshotDir creates a snapshot in a temporary directory on the OS
// filesystem and returns its path. The directory is cleaned up when the
// test completes.
func SetupSnapshotDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, afero.NewOsFs(), dir, files)
	return dir
}

// WriteFiles writes every entry of files below root.
func WriteFiles(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		WriteFile(t, fs, root, path, content)
	}
}

// WriteFile writes one snapshot file, creating parent directories.
func WriteFile(t *testing.T, fs afero.Fs, root, path, content string) {
	t.Helper()
	fullPath := filepath.Join(root, path)
	if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// ReadFile returns the contents of a snapshot file.
func ReadFile(t *testing.T, fs afero.Fs, root, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(root, path))
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// DeviceFile returns the relative path of a responder's device record.
func DeviceFile(universe int, uid string) string {
	return filepath.Join("universes", strconv.Itoa(universe), "devices", strings.ReplaceAll(uid, ":", "_")+".json")
}

// PersonalitiesFile returns the relative path of a responder's
// personality list.
func PersonalitiesFile(universe int, uid string) string {
	return strings.TrimSuffix(DeviceFile(universe, uid), ".json") + ".personalities.json"
}

// SkipIfNoWatch skips tests that rely on filesystem notifications when
// the temporary directory does not deliver them, as on some network and
// overlay filesystems.
func SkipIfNoWatch(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping filesystem notification test in short mode")
	}
	if os.Getenv("OLATUI_SKIP_WATCH_TESTS") != "" {
		t.Skip("filesystem notification tests disabled")
	}
}

// Eventually polls cond every few milliseconds until it holds or timeout
// expires, and reports whether it held.
func Eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
}
