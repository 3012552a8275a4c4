package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withNoConfigFile runs the test from an empty directory so no config.yaml
// or .env is picked up.
func withNoConfigFile(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

// TestLoad_DefaultPort tests loading config with default port.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestLoad_DefaultPort(t *testing.T) {
	// Arrange
	withNoConfigFile(t)
	t.Setenv("PORT", "")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}

	if cfg.PageSize != 5 {
		t.Errorf("expected default page size 5, got %d", cfg.PageSize)
	}

	if cfg.GitLabURL != "https://gitlab.com" {
		t.Errorf("expected default GitLab URL, got %q", cfg.GitLabURL)
	}
}

// TestLoad_CustomPort tests loading config with custom port from environment.
func TestLoad_CustomPort(t *testing.T) {
	// Arrange
	withNoConfigFile(t)
	t.Setenv("PORT", "3000")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Port)
	}
}

// TestLoad_InvalidPort tests that invalid port falls back to default.
func TestLoad_InvalidPort(t *testing.T) {
	// Arrange
	withNoConfigFile(t)
	t.Setenv("PORT", "invalid")
	t.Setenv("PAGE_SIZE", "-2")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080 for invalid input, got %d", cfg.Port)
	}

	if cfg.PageSize != 5 {
		t.Errorf("expected default page size for negative input, got %d", cfg.PageSize)
	}
}

// TestLoad_YAMLFileWithEnvOverride tests that env values win over the file.
func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "insights.yaml")
	content := "gitlab_url: https://gitlab.stud.example.no\nproject_id: \"17\"\npage_size: 10\ngitlab_token: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GITLAB_TOKEN", "from-env")

	// Act
	cfg, err := Load()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.GitLabURL != "https://gitlab.stud.example.no" {
		t.Errorf("expected GitLab URL from file, got %q", cfg.GitLabURL)
	}

	if cfg.ProjectID != "17" {
		t.Errorf("expected project ID 17, got %q", cfg.ProjectID)
	}

	if cfg.PageSize != 10 {
		t.Errorf("expected page size 10, got %d", cfg.PageSize)
	}

	if cfg.GitLabToken != "from-env" {
		t.Errorf("expected env token to win, got %q", cfg.GitLabToken)
	}

	if !cfg.HasGitLabConfig() {
		t.Error("expected GitLab to be configured")
	}
}

// TestLoad_MissingExplicitFile tests that a configured but absent file fails.
func TestLoad_MissingExplicitFile(t *testing.T) {
	// Arrange
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	// Act
	_, err := Load()

	// Assert
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

// TestLoad_InvalidYAML tests parse errors.
func TestLoad_InvalidYAML(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	// Act
	_, err := Load()

	// Assert
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

// TestHasSentryConfig tests the Sentry predicate.
func TestHasSentryConfig(t *testing.T) {
	cfg := Defaults()
	if cfg.HasSentryConfig() {
		t.Error("expected Sentry disabled by default")
	}

	cfg.SentryDSN = "https://key@sentry.example.com/1"
	if !cfg.HasSentryConfig() {
		t.Error("expected Sentry enabled with DSN")
	}
}
