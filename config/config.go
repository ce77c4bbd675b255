// ABOUTME: Configuration loader for the package analysis engine
// ABOUTME: Env variables with defaults, custom repositories from a YAML file

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Auth types accepted for custom repositories.
const (
	AuthToken = "token"
	AuthBasic = "basic"
)

// CustomRepo describes one internal package repository whose naming
// prefix marks modules as custom rather than public.
type CustomRepo struct {
	Name              string `yaml:"name"`
	BaseURL           string `yaml:"base_url"`
	AuthType          string `yaml:"auth_type"`
	Credentials       string `yaml:"credentials"`
	PackagePrefix     string `yaml:"package_prefix"`
	DocumentationPath string `yaml:"documentation_path"`
}

type Config struct {
	// Engine behavior
	AWSLambdaFocus  bool // enables the size/packaging analysis path
	ScrapingEnabled bool // gates network documentation fetches
	EnableCaching   bool
	CacheTTL        int // seconds

	// Network
	MaxConcurrentRequests int
	RequestTimeout        int    // seconds, per network sub-operation
	RegistryURL           string // package registry base URL

	// Reference-data overrides (optional YAML files)
	BenchmarksFile string
	KnowledgeFile  string

	// Custom repositories
	CustomReposFile string
	CustomRepos     []CustomRepo
}

// Prefixes returns the configured custom-repository naming prefixes.
func (c *Config) Prefixes() []string {
	prefixes := make([]string, 0, len(c.CustomRepos))
	for _, repo := range c.CustomRepos {
		if repo.PackagePrefix != "" {
			prefixes = append(prefixes, repo.PackagePrefix)
		}
	}
	return prefixes
}

// Load reads configuration from the environment and, when configured,
// the custom-repositories YAML file. Malformed custom-repo definitions
// are fatal here, before any analysis runs.
func Load() (*Config, error) {
	cfg := &Config{
		AWSLambdaFocus:  getEnvBool("AWS_LAMBDA_FOCUS", true),
		ScrapingEnabled: getEnvBool("SCRAPING_ENABLED", false),
		EnableCaching:   getEnvBool("ENABLE_CACHING", true),
		CacheTTL:        getEnvInt("CACHE_TTL", 300),

		MaxConcurrentRequests: getEnvInt("MAX_CONCURRENT_REQUESTS", 5),
		RequestTimeout:        getEnvInt("REQUEST_TIMEOUT", 10),
		RegistryURL:           ensureScheme(getEnv("REGISTRY_URL", "https://pypi.org")),

		BenchmarksFile: os.Getenv("BENCHMARKS_FILE"),
		KnowledgeFile:  os.Getenv("KNOWLEDGE_FILE"),

		CustomReposFile: os.Getenv("CUSTOM_REPOS_FILE"),
	}

	if cfg.MaxConcurrentRequests < 1 || cfg.MaxConcurrentRequests > 100 {
		return nil, fmt.Errorf("MAX_CONCURRENT_REQUESTS must be between 1 and 100, got %d", cfg.MaxConcurrentRequests)
	}
	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 300 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.RequestTimeout)
	}
	if cfg.CacheTTL < 1 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}

	if cfg.CustomReposFile != "" {
		repos, err := loadCustomRepos(cfg.CustomReposFile)
		if err != nil {
			return nil, err
		}
		cfg.CustomRepos = repos
	}

	return cfg, nil
}

// loadCustomRepos reads and validates the custom-repositories file.
func loadCustomRepos(path string) ([]CustomRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read custom repos file at %s: %w", path, err)
	}

	var file struct {
		Repos []CustomRepo `yaml:"repos"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("could not parse custom repos file at %s: %w", path, err)
	}

	for i, repo := range file.Repos {
		if err := validateRepo(repo); err != nil {
			return nil, fmt.Errorf("custom repo %d (%s): %w", i, repo.Name, err)
		}
	}
	return file.Repos, nil
}

func validateRepo(repo CustomRepo) error {
	if repo.Name == "" {
		return fmt.Errorf("name is required")
	}
	if repo.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if repo.PackagePrefix == "" {
		return fmt.Errorf("package_prefix is required")
	}
	switch repo.AuthType {
	case "", AuthToken, AuthBasic:
	default:
		return fmt.Errorf("auth_type must be %q or %q, got %q", AuthToken, AuthBasic, repo.AuthType)
	}
	if repo.AuthType != "" && repo.Credentials == "" {
		return fmt.Errorf("credentials are required when auth_type is set")
	}
	if repo.AuthType == AuthBasic && !strings.Contains(repo.Credentials, ":") {
		return fmt.Errorf("basic auth credentials must be user:password")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
