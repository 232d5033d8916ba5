package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindAndLoad(t *testing.T) {
	t.Setenv(CCEnv, "")
	t.Setenv(LLIEnv, "")

	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
entry = "start"
timing = true
`)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, path, err := FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}

	if path != filepath.Join(root, FileName) {
		t.Errorf("expected config at %s, got %s", filepath.Join(root, FileName), path)
	}

	want := &Config{Entry: "start", CC: "clang", LLI: "lli", Output: "a.out", Timing: true}
	if diff := pretty.Diff(want, c); len(diff) > 0 {
		t.Errorf("unexpected config:\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv(CCEnv, "")
	t.Setenv(LLIEnv, "")

	c, path, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if path != "" {
		// A stray lswift.toml above the temp dir would be picked up.
		t.Skipf("found unrelated config at %s", path)
	}

	if diff := pretty.Diff(DefaultConfig(), c); len(diff) > 0 {
		t.Errorf("unexpected config:\n%s", diff)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(CCEnv, "/opt/llvm/bin/clang")
	t.Setenv(LLIEnv, "/opt/llvm/bin/lli")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
cc = "clang-15"
lli = "lli-15"
`)

	c, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if c.CC != "/opt/llvm/bin/clang" {
		t.Errorf("expected env to override cc, got %s", c.CC)
	}
	if c.LLI != "/opt/llvm/bin/lli" {
		t.Errorf("expected env to override lli, got %s", c.LLI)
	}
}

func TestLLIFromFile(t *testing.T) {
	t.Setenv(LLIEnv, "")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `lli = "lli-15"`)

	c, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if c.LLI != "lli-15" {
		t.Errorf("expected lli-15, got %s", c.LLI)
	}
}

func TestInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `entry = `)

	if _, err := Load(filepath.Join(dir, FileName)); err == nil {
		t.Error("expected a decode error")
	}
}
