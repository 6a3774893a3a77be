package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestProjectLifecycle walks a project working copy through its life:
// init, add packages, track files in one, remove a package.
func TestProjectLifecycle(t *testing.T) {
	env := NewTestEnv(t)

	env.MustRunObc("init", "--project", "devel:tools", "prj")
	prjRoot := filepath.Join(env.Workspace, "prj")

	env.MustRunObc("packages", "--add", "alpha", "prj")
	env.MustRunObc("packages", "--add", "beta", "prj")

	list := env.MustRunObc("packages", "prj")
	if got := strings.Fields(list.Stdout); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("packages output: %q", list.Stdout)
	}

	// The nested package is a full working copy sharing the project's
	// data directory through a store symlink.
	alphaStore := filepath.Join(prjRoot, "alpha", ".store")
	fi, err := os.Lstat(alphaStore)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Errorf("package store is not a symlink: %s", alphaStore)
	}
	resolved, err := filepath.EvalSymlinks(alphaStore)
	if err != nil {
		t.Fatal(err)
	}
	wantData, err := filepath.EvalSymlinks(filepath.Join(prjRoot, ".store", "data", "alpha"))
	if err != nil {
		t.Fatal(err)
	}
	if resolved != wantData {
		t.Errorf("package store resolves to %s, want %s", resolved, wantData)
	}

	// Track a file inside the nested package.
	alphaRoot := filepath.Join(prjRoot, "alpha")
	if err := os.WriteFile(filepath.Join(alphaRoot, "alpha.spec"), []byte("Name: alpha\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	env.MustRunObcIn(alphaRoot, "add", "alpha.spec")

	info := env.MustRunObcIn(alphaRoot, "info")
	for _, want := range []string{"devel:tools", "alpha"} {
		if !strings.Contains(info.Stdout, want) {
			t.Errorf("info output missing %q: %q", want, info.Stdout)
		}
	}

	// Project status shows the tracked packages.
	status := env.MustRunObc("status", "prj")
	if !strings.Contains(status.Stdout, "alpha") || !strings.Contains(status.Stdout, "beta") {
		t.Errorf("status output: %q", status.Stdout)
	}

	// Removing a package drops its directory and data.
	env.MustRunObc("packages", "--remove", "beta", "prj")
	list = env.MustRunObc("packages", "prj")
	if strings.Contains(list.Stdout, "beta") {
		t.Errorf("removed package still listed: %q", list.Stdout)
	}
	if _, err := os.Stat(filepath.Join(prjRoot, "beta")); !os.IsNotExist(err) {
		t.Errorf("removed package directory still exists")
	}

	// Removing an untracked package is a user error.
	result := env.RunObc("packages", "--remove", "beta", "prj")
	if result.ExitCode != 1 {
		t.Errorf("expected exit code 1, got %d", result.ExitCode)
	}

	// The project is still consistent after all of this.
	env.MustRunObc("check", "prj")
	env.MustRunObc("check", filepath.Join("prj", "alpha"))
}
