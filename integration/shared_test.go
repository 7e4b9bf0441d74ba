//go:build basic || database

// Package integration contains integration tests for uptake.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedUptakePath holds the path to a shared uptake binary built once for all tests.
	sharedUptakePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getUptakeBinary returns the path to the uptake binary, building it once if needed.
func getUptakeBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "uptake-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		uptakePath := filepath.Join(tempDir, "uptake")
		buildCmd := exec.Command("go", "build", "-o", uptakePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build uptake: %v", err))
		}

		sharedUptakePath = uptakePath
	})

	return sharedUptakePath
}

// dataDir returns the absolute path of the sample logs.
func dataDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs("testdata")
	if err != nil {
		t.Fatalf("failed to resolve testdata: %v", err)
	}
	return dir
}

// runUptake runs the binary from a scratch directory and returns stdout.
// Output on failure is logged to help debug the command.
func runUptake(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getUptakeBinary(), args...)
	cmd.Dir = t.TempDir()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
