package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !result.Settings.Linkify {
		t.Error("expected linkify enabled by default")
	}
	if result.Settings.Breaks {
		t.Error("expected breaks disabled by default")
	}
	if result.Settings.Theme != "github" {
		t.Errorf("expected theme %q, got %q", "github", result.Settings.Theme)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, ".mdview.yml", "breaks: true\ntheme: dracula\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !result.Settings.Breaks {
		t.Error("expected breaks enabled from project config")
	}
	if result.Settings.Theme != "dracula" {
		t.Errorf("expected theme %q, got %q", "dracula", result.Settings.Theme)
	}
	// Keys the file does not set keep their defaults.
	if !result.Settings.Linkify {
		t.Error("expected linkify to keep its default")
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != configPath {
		t.Errorf("expected LoadedFrom = [%s], got %v", configPath, result.LoadedFrom)
	}
}

func TestLoad_ProjectConfigUpwardSearch(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".mdview.yml", "theme: nord\n")

	nested := filepath.Join(tmpDir, "docs", "guide")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       nested,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Settings.Theme != "nord" {
		t.Errorf("expected theme from ancestor config, got %q", result.Settings.Theme)
	}
}

func TestLoad_UpwardSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".mdview.yml", "theme: nord\n")

	// A VCS root below the config file fences the search off.
	repo := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       repo,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Settings.Theme != "github" {
		t.Errorf("expected default theme, got %q", result.Settings.Theme)
	}
}

func TestLoad_ExplicitPathSkipsProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".mdview.yml", "theme: nord\n")
	explicit := writeConfig(t, tmpDir, "custom.yml", "theme: monokai\n")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		ExplicitPath:     explicit,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Settings.Theme != "monokai" {
		t.Errorf("expected explicit config to win, got %q", result.Settings.Theme)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	_, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		ExplicitPath:     filepath.Join(tmpDir, "nope.yml"),
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".mdview.yml", "themee: nord\n")

	_, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	})
	if err == nil {
		t.Fatal("expected error for unknown config key")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".mdview.yml", "theme: nord\nbreaks: false\n")

	t.Setenv("MDVIEW_THEME", "monokai")
	t.Setenv("MDVIEW_BREAKS", "true")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Settings.Theme != "monokai" {
		t.Errorf("expected env theme to win, got %q", result.Settings.Theme)
	}
	if !result.Settings.Breaks {
		t.Error("expected env breaks override")
	}
}

func TestLoad_EnvInvalidBool(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("MDVIEW_LINKIFY", "sideways")

	_, err := Load(context.Background(), LoadOptions{
		WorkingDir:       tmpDir,
		IgnoreUserConfig: true,
	})
	if err == nil {
		t.Fatal("expected error for invalid boolean")
	}
	if !strings.Contains(err.Error(), "MDVIEW_LINKIFY") {
		t.Errorf("unexpected error: %v", err)
	}
}
