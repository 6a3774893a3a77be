// Package integration provides CLI integration tests for obc.
package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// obcBin is the path to the built obc binary.
	obcBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv provides an isolated test environment with its own config
// directory and workspace for working copies.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	Workspace string
}

// NewTestEnv creates a new isolated test environment. The config file
// carries a default apiurl so init works without the flag.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build obc: %v", buildErr)
	}
	if obcBin == "" {
		t.Fatal("obc binary not built (obcBin is empty)")
	}

	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	workspace := filepath.Join(tempDir, "workspace")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	configContent := "apiurl: https://api.example.org\nlog_level: info\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: configDir,
		Workspace: workspace,
	}
}

// CmdResult holds the result of an obc command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunObc executes the obc CLI with the given arguments from the
// workspace directory.
func (e *TestEnv) RunObc(args ...string) CmdResult {
	return e.RunObcIn(e.Workspace, args...)
}

// RunObcIn executes the obc CLI with the given arguments from dir.
func (e *TestEnv) RunObcIn(dir string, args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir}, args...)
	cmd := exec.Command(obcBin, allArgs...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run obc: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunObc executes the obc CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunObc(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunObc(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("obc %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// MustRunObcIn executes the obc CLI from dir and fails the test if it
// returns non-zero.
func (e *TestEnv) MustRunObcIn(dir string, args ...string) CmdResult {
	e.t.Helper()
	result := e.RunObcIn(dir, args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("obc %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}
