// ABOUTME: Benchmark reference data and suitability comparison types
// ABOUTME: Per-package runtime characteristics and Lambda sizing results

package models

// BenchmarkData holds measured runtime characteristics for one
// package. Treated as an immutable value object; looked up by
// module identifier.
type BenchmarkData struct {
	PackageName       string  `json:"package_name" yaml:"package_name"`
	MemoryUsageMB     float64 `json:"memory_usage_mb" yaml:"memory_usage_mb"`
	ExecutionTimeMS   float64 `json:"execution_time_ms" yaml:"execution_time_ms"`
	ColdStartImpactMS float64 `json:"cold_start_impact_ms" yaml:"cold_start_impact_ms"`
	PackageSizeMB     float64 `json:"package_size_mb" yaml:"package_size_mb"`
	CPUUsagePercent   float64 `json:"cpu_usage_percent" yaml:"cpu_usage_percent"`
}

// Alternative is one ranked replacement candidate for a primary
// package, with its deltas versus the primary.
type Alternative struct {
	Name                   string  `json:"name"`
	SuitabilityDelta       float64 `json:"suitability_delta"`
	PerformanceImprovement string  `json:"performance_improvement,omitempty"`
	SizeReductionMB        float64 `json:"size_reduction_mb"`
}

// PackageComparison scores one analyzed module for a constrained
// execution environment and ranks replacement candidates serving the
// same use case.
type PackageComparison struct {
	PrimaryPackage         string        `json:"primary_package"`
	Alternatives           []Alternative `json:"alternatives"`
	UseCase                string        `json:"use_case,omitempty"`
	LambdaSuitabilityScore float64       `json:"lambda_suitability_score"`
}

// LambdaOptimizationResult estimates the packaging-size reduction
// achievable by removing or replacing unsuitable modules.
type LambdaOptimizationResult struct {
	OriginalSizeMB          float64           `json:"original_size_mb"`
	OptimizedSizeMB         float64           `json:"optimized_size_mb"`
	SizeReductionPercent    float64           `json:"size_reduction_percent"`
	RemovedPackages         []string          `json:"removed_packages,omitempty"`
	LightweightReplacements map[string]string `json:"lightweight_replacements,omitempty"`
	BundlingStrategy        string            `json:"bundling_strategy"`
}
