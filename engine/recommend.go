// ABOUTME: Recommendation synthesis from analyzer findings
// ABOUTME: Deprecation fixes, upgrade suggestions, loop-bound I/O heuristics, Lambda sizing

package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Frosselet/lambda-package-advisor/models"
)

// upgradeDelta is the minimum suitability gain before an alternative
// becomes a package_upgrade recommendation.
const upgradeDelta = 1.5

// httpCallPattern matches synchronous HTTP client invocations.
var httpCallPattern = regexp.MustCompile(`\b(requests|httpx|urllib3)\.\w*\.?(get|post|put|patch|delete|head|request)\(`)

// loopHeadPattern matches the opening line of a Python loop.
var loopHeadPattern = regexp.MustCompile(`^(\s*)(for|while)\b.*:`)

// synthesize merges all findings into the final ranked recommendation
// list. Generation order is deterministic (findings order, then sorted
// module order, then source order) and the final sort is stable, so
// identical input yields identical output.
func (e *Engine) synthesize(unit models.SourceUnit, result *models.AnalysisResult) []models.Recommendation {
	recs := []models.Recommendation{}

	for _, dep := range result.Deprecations {
		recs = append(recs, deprecationFix(dep))
	}

	for _, pkg := range result.Imports {
		cmp, ok := result.Comparisons[pkg]
		if !ok || len(cmp.Alternatives) == 0 {
			continue
		}
		if best := cmp.Alternatives[0]; best.SuitabilityDelta >= upgradeDelta {
			recs = append(recs, packageUpgrade(pkg, cmp, best))
		}
	}

	if line, ok := loopBoundHTTPCall(unit.Code); ok {
		recs = append(recs, asyncOptimization(line, result))
	}

	if pandasRowIteration(unit.Code, result.Imports) {
		recs = append(recs, models.Recommendation{
			Type:            models.RecommendationPatternModernization,
			CurrentCode:     "for idx, row in df.iterrows():",
			SuggestedCode:   "df.apply(...)  # or a vectorized column expression",
			Reason:          "row-wise iteration over a DataFrame is orders of magnitude slower than vectorized operations",
			ConfidenceScore: models.ConfidenceFor(models.RecommendationPatternModernization),
			Impact:          models.ImpactMedium,
		})
	}

	models.SortRecommendations(recs)
	return recs
}

func deprecationFix(dep models.DeprecationInfo) models.Recommendation {
	suggested := ""
	if len(dep.Alternatives) > 0 {
		suggested = dep.Alternatives[0]
	}

	impact := models.ImpactLow
	switch dep.Severity {
	case models.DeprecationCritical:
		impact = models.ImpactHigh
	case models.DeprecationWarning:
		impact = models.ImpactMedium
	}

	reason := fmt.Sprintf("%s.%s: %s", dep.PackageName, dep.MethodName, dep.DeprecationMessage)
	if dep.RemovalInVersion != "" {
		reason += fmt.Sprintf(" (removed in %s)", dep.RemovalInVersion)
	}

	return models.Recommendation{
		Type:            models.RecommendationDeprecationFix,
		CurrentCode:     dep.MethodName,
		SuggestedCode:   suggested,
		Reason:          reason,
		ConfidenceScore: models.ConfidenceFor(models.RecommendationDeprecationFix),
		Impact:          impact,
	}
}

func packageUpgrade(pkg string, cmp models.PackageComparison, best models.Alternative) models.Recommendation {
	impact := models.ImpactMedium
	if best.SuitabilityDelta >= 3.0 {
		impact = models.ImpactHigh
	}

	reason := fmt.Sprintf("%s scores %.1f/10 for constrained execution; %s scores %.1f higher",
		pkg, cmp.LambdaSuitabilityScore, best.Name, best.SuitabilityDelta)
	if best.SizeReductionMB > 0 {
		reason += fmt.Sprintf(" and saves %.0f MB of package size", best.SizeReductionMB)
	}

	return models.Recommendation{
		Type:            models.RecommendationPackageUpgrade,
		CurrentCode:     "import " + pkg,
		SuggestedCode:   "import " + best.Name,
		Reason:          reason,
		ConfidenceScore: models.ConfidenceFor(models.RecommendationPackageUpgrade),
		Impact:          impact,
	}
}

// loopBoundHTTPCall reports the first synchronous HTTP call nested
// inside a loop body, detected by indentation relative to the nearest
// loop head.
func loopBoundHTTPCall(code string) (string, bool) {
	loopIndent := -1

	for _, line := range strings.Split(code, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		if m := loopHeadPattern.FindStringSubmatch(line); m != nil {
			loopIndent = len(m[1])
			continue
		}
		if loopIndent >= 0 && indent <= loopIndent {
			// dedented past the loop body
			loopIndent = -1
		}
		if loopIndent >= 0 && httpCallPattern.MatchString(line) {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}

func asyncOptimization(line string, result *models.AnalysisResult) models.Recommendation {
	impact := models.ImpactMedium
	if result.HasTrigger(models.TriggerLambdaOptimization) {
		impact = models.ImpactHigh
	}

	return models.Recommendation{
		Type:            models.RecommendationAsyncOptimization,
		CurrentCode:     line,
		SuggestedCode:   "async with aiohttp.ClientSession() as session: await asyncio.gather(...)",
		Reason:          "sequential HTTP calls inside a loop serialize network latency; batch them with async I/O or parallel requests",
		ConfidenceScore: models.ConfidenceFor(models.RecommendationAsyncOptimization),
		Impact:          impact,
	}
}

func pandasRowIteration(code string, imports []string) bool {
	hasPandas := false
	for _, pkg := range imports {
		if pkg == "pandas" {
			hasPandas = true
		}
	}
	return hasPandas && strings.Contains(code, ".iterrows(")
}

// lambdaOptimization estimates the deployable-size reduction from
// replacing packages that have a materially better alternative.
func (e *Engine) lambdaOptimization(result *models.AnalysisResult) *models.LambdaOptimizationResult {
	var originalSize, optimizedSize float64
	var removed []string
	replacements := make(map[string]string)
	known := 0

	for _, pkg := range result.Imports {
		bd, ok := e.scorer.Lookup(pkg)
		if !ok {
			continue
		}
		known++
		originalSize += bd.PackageSizeMB

		cmp, hasCmp := result.Comparisons[pkg]
		if hasCmp && len(cmp.Alternatives) > 0 && cmp.Alternatives[0].SuitabilityDelta >= upgradeDelta {
			best := cmp.Alternatives[0]
			if alt, ok := e.scorer.Lookup(best.Name); ok {
				optimizedSize += alt.PackageSizeMB
				removed = append(removed, pkg)
				replacements[pkg] = best.Name
				continue
			}
		}
		optimizedSize += bd.PackageSizeMB
	}

	if known == 0 || originalSize <= 0 {
		// no per-module sizes known, nothing to estimate
		return nil
	}

	return &models.LambdaOptimizationResult{
		OriginalSizeMB:          originalSize,
		OptimizedSizeMB:         optimizedSize,
		SizeReductionPercent:    (originalSize - optimizedSize) / originalSize * 100,
		RemovedPackages:         removed,
		LightweightReplacements: replacements,
		BundlingStrategy:        bundlingStrategy(optimizedSize),
	}
}

// bundlingStrategy picks a packaging approach from the optimized
// footprint against Lambda's 50 MB zipped and 250 MB unzipped limits.
func bundlingStrategy(sizeMB float64) string {
	switch {
	case sizeMB <= 50:
		return "single zip artifact"
	case sizeMB <= 250:
		return "zip with Lambda layers"
	default:
		return "container image"
	}
}
