// ABOUTME: Package registry client for version lookups
// ABOUTME: PyPI JSON endpoint, fail-soft with a typed network error

package knowledge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Frosselet/lambda-package-advisor/models"
)

// NetworkError reports a registry or documentation fetch that failed
// or timed out. Callers recover locally and leave the corresponding
// result fields absent.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("registry unavailable at %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RegistryClient is the narrow capability the engine depends on;
// real network clients and deterministic test doubles both satisfy it.
type RegistryClient interface {
	GetPackageVersionInfo(ctx context.Context, pkg, knownVersion string) (models.VersionInfo, error)
}

// PyPIClient queries the PyPI JSON API.
type PyPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPyPIClient creates a registry client. If httpClient is nil, a
// default client with a 10s timeout is used.
func NewPyPIClient(baseURL string, httpClient *http.Client) *PyPIClient {
	if baseURL == "" {
		baseURL = "https://pypi.org"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &PyPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetPackageVersionInfo fetches the latest published version of a
// package and counts how many releases lie between the known version
// and it. Network failures come back as *NetworkError so the caller
// can degrade instead of aborting the analysis.
func (c *PyPIClient) GetPackageVersionInfo(ctx context.Context, pkg, knownVersion string) (models.VersionInfo, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, pkg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.VersionInfo{}, fmt.Errorf("failed to create registry request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.VersionInfo{}, &NetworkError{Endpoint: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.VersionInfo{}, &NetworkError{
			Endpoint: url,
			Err:      fmt.Errorf("registry returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.VersionInfo{}, &NetworkError{Endpoint: url, Err: err}
	}

	latest := gjson.GetBytes(body, "info.version").String()
	if latest == "" {
		return models.VersionInfo{}, &NetworkError{
			Endpoint: url,
			Err:      fmt.Errorf("registry response missing info.version"),
		}
	}

	var releases []string
	gjson.GetBytes(body, "releases").ForEach(func(key, _ gjson.Result) bool {
		releases = append(releases, key.String())
		return true
	})

	return models.VersionInfo{
		PackageName:    pkg,
		CurrentVersion: knownVersion,
		LatestVersion:  latest,
		VersionsBehind: versionsBehind(knownVersion, releases),
	}, nil
}

// versionsBehind counts releases strictly newer than the known
// version. An empty known version reports 0.
func versionsBehind(known string, releases []string) int {
	if known == "" {
		return 0
	}
	sort.Slice(releases, func(i, j int) bool {
		return compareVersions(releases[i], releases[j]) < 0
	})

	behind := 0
	for _, r := range releases {
		if compareVersions(r, known) > 0 {
			behind++
		}
	}
	return behind
}

// compareVersions orders dotted release strings numerically segment by
// segment; non-numeric segments fall back to string comparison. Good
// enough for counting, not a full PEP 440 implementation.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var sa, sb string
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		switch {
		case errA == nil && errB == nil:
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
		default:
			if sa != sb {
				if sa < sb {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}
