// ABOUTME: Documentation-endpoint client for custom package metadata
// ABOUTME: Narrow fetch interface with a fail-soft HTTP implementation

package customrepo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Frosselet/lambda-package-advisor/config"
	"github.com/Frosselet/lambda-package-advisor/models"
)

// FetchError reports a documentation fetch that failed or timed out.
// Callers keep the bare classification and leave metadata absent.
type FetchError struct {
	Repo string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("documentation unavailable from repo %s: %v", e.Repo, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MetadataFetcher is the capability interface the engine depends on;
// the HTTP implementation and deterministic test doubles both satisfy it.
type MetadataFetcher interface {
	FetchCustomPackageMetadata(ctx context.Context, repo config.CustomRepo, pkg string) (models.CustomPackageRecord, error)
}

// HTTPFetcher queries a repository's documentation endpoint, which
// returns `{functions, classes, doc_url}` for a package.
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher. If httpClient is nil, a default
// client with a 10s timeout is used.
func NewHTTPFetcher(httpClient *http.Client) *HTTPFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{httpClient: httpClient}
}

// FetchCustomPackageMetadata retrieves function/class listings for a
// custom package. Failures come back as *FetchError so the analysis
// degrades to a prefix-only record instead of aborting.
func (f *HTTPFetcher) FetchCustomPackageMetadata(ctx context.Context, repo config.CustomRepo, pkg string) (models.CustomPackageRecord, error) {
	record := models.CustomPackageRecord{Name: pkg, MatchedRepo: repo.Name}

	docPath := repo.DocumentationPath
	if docPath == "" {
		docPath = "/packages"
	}
	url := strings.TrimSuffix(repo.BaseURL, "/") + "/" + strings.Trim(docPath, "/") + "/" + pkg

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return record, fmt.Errorf("failed to create documentation request: %w", err)
	}

	switch repo.AuthType {
	case config.AuthToken:
		req.Header.Set("Authorization", "Bearer "+repo.Credentials)
	case config.AuthBasic:
		user, pass, _ := strings.Cut(repo.Credentials, ":")
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return record, &FetchError{Repo: repo.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return record, &FetchError{
			Repo: repo.Name,
			Err:  fmt.Errorf("documentation endpoint returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return record, &FetchError{Repo: repo.Name, Err: err}
	}

	for _, fn := range gjson.GetBytes(body, "functions").Array() {
		record.Functions = append(record.Functions, fn.String())
	}
	for _, cls := range gjson.GetBytes(body, "classes").Array() {
		record.Classes = append(record.Classes, cls.String())
	}
	record.DocumentationURL = gjson.GetBytes(body, "doc_url").String()

	return record, nil
}
