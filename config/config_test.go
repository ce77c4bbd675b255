// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers env defaults, bounds checks, and custom-repo file errors

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.AWSLambdaFocus {
		t.Error("Expected AWSLambdaFocus default true")
	}
	if cfg.ScrapingEnabled {
		t.Error("Expected ScrapingEnabled default false")
	}
	if !cfg.EnableCaching {
		t.Error("Expected EnableCaching default true")
	}
	if cfg.MaxConcurrentRequests != 5 {
		t.Errorf("Expected MaxConcurrentRequests 5, got %d", cfg.MaxConcurrentRequests)
	}
	if cfg.RequestTimeout != 10 {
		t.Errorf("Expected RequestTimeout 10, got %d", cfg.RequestTimeout)
	}
	if cfg.RegistryURL != "https://pypi.org" {
		t.Errorf("Expected default registry URL, got '%s'", cfg.RegistryURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FOCUS", "false")
	t.Setenv("MAX_CONCURRENT_REQUESTS", "20")
	t.Setenv("REGISTRY_URL", "registry.internal.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AWSLambdaFocus {
		t.Error("Expected AWSLambdaFocus false")
	}
	if cfg.MaxConcurrentRequests != 20 {
		t.Errorf("Expected MaxConcurrentRequests 20, got %d", cfg.MaxConcurrentRequests)
	}
	if cfg.RegistryURL != "https://registry.internal.example.com" {
		t.Errorf("Expected scheme to be added, got '%s'", cfg.RegistryURL)
	}
}

func TestLoad_RejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"MAX_CONCURRENT_REQUESTS", "0"},
		{"MAX_CONCURRENT_REQUESTS", "500"},
		{"REQUEST_TIMEOUT", "0"},
		{"CACHE_TTL", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func writeRepoFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repos.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write repos file: %v", err)
	}
	return path
}

func TestLoad_CustomReposFile(t *testing.T) {
	path := writeRepoFile(t, `
repos:
  - name: acme-internal
    base_url: https://pkg.acme.example.com
    auth_type: token
    credentials: s3cret
    package_prefix: acme_
    documentation_path: /api/docs
`)
	t.Setenv("CUSTOM_REPOS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.CustomRepos) != 1 {
		t.Fatalf("Expected 1 custom repo, got %d", len(cfg.CustomRepos))
	}
	if cfg.CustomRepos[0].PackagePrefix != "acme_" {
		t.Errorf("Expected prefix 'acme_', got '%s'", cfg.CustomRepos[0].PackagePrefix)
	}
	prefixes := cfg.Prefixes()
	if len(prefixes) != 1 || prefixes[0] != "acme_" {
		t.Errorf("Expected Prefixes() = [acme_], got %v", prefixes)
	}
}

func TestLoad_InvalidCustomRepoFatal(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"bad auth type",
			"repos:\n  - name: r\n    base_url: https://x\n    package_prefix: p_\n    auth_type: oauth\n    credentials: c\n",
		},
		{
			"auth without credentials",
			"repos:\n  - name: r\n    base_url: https://x\n    package_prefix: p_\n    auth_type: token\n",
		},
		{
			"basic without colon",
			"repos:\n  - name: r\n    base_url: https://x\n    package_prefix: p_\n    auth_type: basic\n    credentials: nopassword\n",
		},
		{
			"missing base_url",
			"repos:\n  - name: r\n    package_prefix: p_\n",
		},
		{
			"missing prefix",
			"repos:\n  - name: r\n    base_url: https://x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRepoFile(t, tt.content)
			t.Setenv("CUSTOM_REPOS_FILE", path)
			if _, err := Load(); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}

func TestLoad_MissingCustomReposFileFatal(t *testing.T) {
	t.Setenv("CUSTOM_REPOS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Expected error for missing custom repos file")
	}
}
