// ABOUTME: Test helpers for e2e tests
// ABOUTME: Provides utilities for environment variable management in tests

package e2e

import (
	"os"
	"testing"
)

// withAdvisorEnv sets baseline advisor environment variables plus
// additional vars, returning a cleanup function that restores all
// original values.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(withAdvisorEnv(t, map[string]string{
//	        "REGISTRY_URL": server.URL,
//	    }))
//	}
func withAdvisorEnv(t *testing.T, extra map[string]string) func() {
	t.Helper()

	baseline := map[string]string{
		"AWS_LAMBDA_FOCUS":  "true",
		"ENABLE_CACHING":    "false",
		"SCRAPING_ENABLED":  "false",
		"REQUEST_TIMEOUT":   "5",
		"CUSTOM_REPOS_FILE": "",
		"KNOWLEDGE_FILE":    "",
		"BENCHMARKS_FILE":   "",
	}

	originals := map[string]string{}
	for key := range baseline {
		originals[key] = os.Getenv(key)
	}
	for key := range extra {
		originals[key] = os.Getenv(key)
	}

	for key, value := range baseline {
		os.Setenv(key, value)
	}
	for key, value := range extra {
		os.Setenv(key, value)
	}

	return func() {
		for key, value := range originals {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}
}
