// ABOUTME: End-to-end test of the full analysis pipeline
// ABOUTME: Tests config load through engine analysis against a stub registry

package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Frosselet/lambda-package-advisor/config"
	"github.com/Frosselet/lambda-package-advisor/engine"
	"github.com/Frosselet/lambda-package-advisor/models"
)

const lambdaPipelineSource = `import pandas as pd
import requests

def handler(event, context):
    df = pd.DataFrame(event["records"])
    for idx, row in df.iterrows():
        requests.get(row["url"])
    return df.to_dict()
`

// stubRegistry serves PyPI-shaped version metadata for the packages
// the scenario pins.
func stubRegistry(t *testing.T) *httptest.Server {
	t.Helper()

	releases := map[string]string{
		"pandas":   `"1.5.3": [], "2.0.0": [], "2.1.4": [], "2.2.3": []`,
		"requests": `"2.28.0": [], "2.31.0": [], "2.32.3": []`,
	}
	latest := map[string]string{
		"pandas":   "2.2.3",
		"requests": "2.32.3",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/pypi/pandas/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"info": {"version": %q}, "releases": {%s}}`, latest["pandas"], releases["pandas"])
	})
	mux.HandleFunc("/pypi/requests/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"info": {"version": %q}, "releases": {%s}}`, latest["requests"], releases["requests"])
	})
	return httptest.NewServer(mux)
}

func TestLambdaPipelineAnalysisE2E(t *testing.T) {
	server := stubRegistry(t)
	defer server.Close()

	t.Cleanup(withAdvisorEnv(t, map[string]string{
		"REGISTRY_URL": server.URL,
	}))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("Failed to build engine: %v", err)
	}

	unit := models.SourceUnit{
		Code:         lambdaPipelineSource,
		Context:      "serverless data pipeline on AWS Lambda",
		Requirements: []string{"pandas==2.0.0", "requests==2.28.0"},
	}

	result, err := eng.Analyze(context.Background(), unit)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// Import extraction
	wantImports := []string{"pandas", "requests"}
	if len(result.Imports) != len(wantImports) {
		t.Fatalf("Expected imports %v, got %v", wantImports, result.Imports)
	}
	for i, pkg := range wantImports {
		if result.Imports[i] != pkg {
			t.Errorf("Expected import %d to be %s, got %s", i, pkg, result.Imports[i])
		}
	}
	if result.ParseDegraded {
		t.Error("Expected structural parse to succeed, got degraded result")
	}

	// Trigger evaluation
	if !result.HasTrigger(models.TriggerPackageImport) {
		t.Error("Expected PACKAGE_IMPORT trigger to fire")
	}
	if !result.HasTrigger(models.TriggerLambdaOptimization) {
		t.Error("Expected LAMBDA_OPTIMIZATION trigger to fire for serverless context")
	}

	// Package comparisons with ranked alternatives for both imports
	for _, pkg := range wantImports {
		cmp, ok := result.Comparisons[pkg]
		if !ok {
			t.Errorf("Expected a comparison for %s", pkg)
			continue
		}
		if len(cmp.Alternatives) == 0 {
			t.Errorf("Expected at least one alternative for %s", pkg)
		}
		if cmp.LambdaSuitabilityScore < 0 || cmp.LambdaSuitabilityScore > 10 {
			t.Errorf("Suitability score for %s out of range: %f", pkg, cmp.LambdaSuitabilityScore)
		}
	}

	// Version reports from the stub registry, sorted by package name
	if len(result.VersionReports) != 2 {
		t.Fatalf("Expected 2 version reports, got %d", len(result.VersionReports))
	}
	pandasReport := result.VersionReports[0]
	if pandasReport.PackageName != "pandas" {
		t.Fatalf("Expected pandas report first, got %s", pandasReport.PackageName)
	}
	if pandasReport.LatestVersion != "2.2.3" {
		t.Errorf("Expected pandas latest 2.2.3, got %s", pandasReport.LatestVersion)
	}
	if pandasReport.VersionsBehind != 2 {
		t.Errorf("Expected pandas 2 versions behind, got %d", pandasReport.VersionsBehind)
	}

	// Lambda optimization estimate with a lightweight replacement
	if result.LambdaOptimization == nil {
		t.Fatal("Expected a lambda optimization result")
	}
	if result.LambdaOptimization.LightweightReplacements["pandas"] == "" {
		t.Error("Expected a lightweight replacement suggestion for pandas")
	}
	if result.LambdaOptimization.BundlingStrategy == "" {
		t.Error("Expected a bundling strategy")
	}

	// Ranked recommendations cover the loop-bound HTTP calls and the
	// row-wise iteration
	byType := map[models.RecommendationType]bool{}
	for _, rec := range result.Recommendations {
		byType[rec.Type] = true
	}
	if !byType[models.RecommendationPackageUpgrade] {
		t.Error("Expected a package_upgrade recommendation")
	}
	if !byType[models.RecommendationAsyncOptimization] {
		t.Error("Expected an async_optimization recommendation for HTTP calls in a loop")
	}
	if !byType[models.RecommendationPatternModernization] {
		t.Error("Expected a pattern_modernization recommendation for iterrows")
	}

	// Ranking: confidence never increases down the list
	for i := 1; i < len(result.Recommendations); i++ {
		if result.Recommendations[i].ConfidenceScore > result.Recommendations[i-1].ConfidenceScore {
			t.Errorf("Recommendations out of order at index %d", i)
		}
	}
}

func TestAnalysisSurvivesRegistryOutageE2E(t *testing.T) {
	server := stubRegistry(t)
	registryURL := server.URL
	server.Close() // every lookup now fails with a connection error

	t.Cleanup(withAdvisorEnv(t, map[string]string{
		"REGISTRY_URL": registryURL,
	}))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("Failed to build engine: %v", err)
	}

	unit := models.SourceUnit{
		Code:         lambdaPipelineSource,
		Context:      "serverless data pipeline on AWS Lambda",
		Requirements: []string{"pandas==2.0.0"},
	}

	result, err := eng.Analyze(context.Background(), unit)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.VersionReports) != 0 {
		t.Errorf("Expected no version reports with registry down, got %d", len(result.VersionReports))
	}
	// Local analysis is unaffected by the outage
	if !result.HasTrigger(models.TriggerPackageImport) {
		t.Error("Expected PACKAGE_IMPORT trigger despite registry outage")
	}
	if len(result.Comparisons) == 0 {
		t.Error("Expected local package comparisons despite registry outage")
	}
	if len(result.Recommendations) == 0 {
		t.Error("Expected recommendations despite registry outage")
	}
}
