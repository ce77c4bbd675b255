// ABOUTME: Lambda suitability scoring and alternative ranking
// ABOUTME: Normalized five-dimension penalty model with fixed calibration ceilings

package benchmarks

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Frosselet/lambda-package-advisor/models"
)

// Calibration ceilings per dimension; a measurement at or beyond the
// ceiling contributes its full weight to the penalty.
const (
	memoryCeilingMB    = 500.0
	executionCeilingMS = 10000.0
	coldStartCeilingMS = 15000.0
	sizeCeilingMB      = 250.0
	cpuCeilingPercent  = 100.0
	neutralScore       = 5.0
)

// Penalty weights, summing to 1. Cold-start impact and package size
// dominate constrained-execution-environment cost.
const (
	weightMemory    = 0.15
	weightExecution = 0.15
	weightColdStart = 0.30
	weightSize      = 0.25
	weightCPU       = 0.15
)

// Scorer ranks packages for suitability in a constrained serverless
// execution environment. The benchmark table and use-case tags are
// frozen at construction and safe for concurrent reads.
type Scorer struct {
	table    map[string]models.BenchmarkData
	useCases map[string][]string
}

// NewScorer builds a Scorer over the built-in benchmark table.
func NewScorer() *Scorer {
	return &Scorer{table: defaultTable, useCases: defaultUseCases}
}

// NewScorerWithTable builds a Scorer over a caller-supplied table,
// e.g. one loaded from a YAML override file or a test fixture.
func NewScorerWithTable(table map[string]models.BenchmarkData, useCases map[string][]string) *Scorer {
	return &Scorer{table: table, useCases: useCases}
}

// Lookup returns the benchmark entry for a package, if known.
func (s *Scorer) Lookup(pkg string) (models.BenchmarkData, bool) {
	bd, ok := s.table[pkg]
	return bd, ok
}

// UseCaseFor returns the use-case tag a package is registered under,
// or "" if untagged.
func (s *Scorer) UseCaseFor(pkg string) string {
	// deterministic iteration over tag names
	tags := make([]string, 0, len(s.useCases))
	for uc := range s.useCases {
		tags = append(tags, uc)
	}
	sort.Strings(tags)

	for _, uc := range tags {
		for _, name := range s.useCases[uc] {
			if name == pkg {
				return uc
			}
		}
	}
	return ""
}

// Score computes the 0..10 suitability score for one benchmark entry.
func Score(bd models.BenchmarkData) float64 {
	penalty := weightMemory*normalize(bd.MemoryUsageMB, memoryCeilingMB) +
		weightExecution*normalize(bd.ExecutionTimeMS, executionCeilingMS) +
		weightColdStart*normalize(bd.ColdStartImpactMS, coldStartCeilingMS) +
		weightSize*normalize(bd.PackageSizeMB, sizeCeilingMB) +
		weightCPU*normalize(bd.CPUUsagePercent, cpuCeilingPercent)

	score := 10.0 * (1.0 - penalty)
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// normalize maps a measurement onto [0,1] against its ceiling.
func normalize(value, ceiling float64) float64 {
	if value <= 0 {
		return 0
	}
	norm := value / ceiling
	if norm > 1 {
		return 1
	}
	return norm
}

// Compare scores a package and ranks replacement candidates serving
// the same use case. An unknown package yields a neutral mid-range
// score with no alternatives rather than an error.
func (s *Scorer) Compare(pkg, useCase, targetEnvironment string) models.PackageComparison {
	primary, ok := s.table[pkg]
	if !ok {
		slog.Debug("No benchmark entry for package", "package", pkg)
		return models.PackageComparison{
			PrimaryPackage:         pkg,
			Alternatives:           []models.Alternative{},
			UseCase:                useCase,
			LambdaSuitabilityScore: neutralScore,
		}
	}

	if useCase == "" {
		useCase = s.UseCaseFor(pkg)
	}
	primaryScore := Score(primary)

	alternatives := []models.Alternative{}
	for _, name := range s.useCases[useCase] {
		if name == pkg {
			continue
		}
		alt, ok := s.table[name]
		if !ok {
			continue
		}
		altScore := Score(alt)
		if altScore <= primaryScore {
			continue
		}
		alternatives = append(alternatives, models.Alternative{
			Name:                   name,
			SuitabilityDelta:       altScore - primaryScore,
			PerformanceImprovement: performanceImprovement(primary, alt),
			SizeReductionMB:        primary.PackageSizeMB - alt.PackageSizeMB,
		})
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].SuitabilityDelta > alternatives[j].SuitabilityDelta
	})

	return models.PackageComparison{
		PrimaryPackage:         pkg,
		Alternatives:           alternatives,
		UseCase:                useCase,
		LambdaSuitabilityScore: primaryScore,
	}
}

// performanceImprovement summarizes how much faster the alternative
// executes relative to the primary.
func performanceImprovement(primary, alt models.BenchmarkData) string {
	if primary.ExecutionTimeMS <= 0 || alt.ExecutionTimeMS >= primary.ExecutionTimeMS {
		return ""
	}
	pct := (primary.ExecutionTimeMS - alt.ExecutionTimeMS) / primary.ExecutionTimeMS * 100
	return fmt.Sprintf("%.0f%% faster execution", pct)
}
