// ABOUTME: Core analysis types for one engine run
// ABOUTME: SourceUnit input, triggers, and the aggregated AnalysisResult

package models

import (
	"strings"
	"time"
)

// TriggerType identifies which analysis dimension a trigger activates.
type TriggerType string

const (
	TriggerPackageImport       TriggerType = "PACKAGE_IMPORT"
	TriggerLambdaOptimization  TriggerType = "LAMBDA_OPTIMIZATION"
	TriggerDeprecatedUsage     TriggerType = "DEPRECATED_USAGE"
	TriggerCustomPackage       TriggerType = "CUSTOM_PACKAGE"
	TriggerComplexityThreshold TriggerType = "COMPLEXITY_THRESHOLD"
)

// TriggerSeverity indicates how strongly a trigger argues for review.
type TriggerSeverity string

const (
	SeverityInfo     TriggerSeverity = "info"
	SeverityWarning  TriggerSeverity = "warning"
	SeverityBlocking TriggerSeverity = "blocking"
)

// Trigger is a signal that a given analysis dimension should run.
// Produced once per run and read-only afterwards.
type Trigger struct {
	Type     TriggerType       `json:"type"`
	Details  map[string]string `json:"details,omitempty"`
	Severity TriggerSeverity   `json:"severity"`
}

// SourceUnit is the immutable input to one analysis run.
type SourceUnit struct {
	Code         string   `json:"code"`
	Context      string   `json:"context,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// Requirement is one parsed entry from a requirements list,
// e.g. "pandas==1.5.3" or "requests>=2.28".
type Requirement struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// requirementSeparators in the order they should be tried; two-char
// operators must come before their one-char prefixes.
var requirementSeparators = []string{"==", ">=", "<=", "~=", "!=", ">", "<"}

// ParseRequirement splits a version-qualified module name into name
// and pinned version. Entries without a qualifier keep an empty version.
func ParseRequirement(raw string) Requirement {
	raw = strings.TrimSpace(raw)
	for _, sep := range requirementSeparators {
		if idx := strings.Index(raw, sep); idx >= 0 {
			return Requirement{
				Name:    strings.TrimSpace(raw[:idx]),
				Version: strings.TrimSpace(raw[idx+len(sep):]),
			}
		}
	}
	return Requirement{Name: raw}
}

// VersionInfo reports how far behind the registry a pinned module is.
type VersionInfo struct {
	PackageName    string `json:"package_name"`
	CurrentVersion string `json:"current_version,omitempty"`
	LatestVersion  string `json:"latest_version"`
	VersionsBehind int    `json:"versions_behind"`
}

// AnalysisResult bundles everything one engine run produced.
// Empty alternative lists, empty deprecation findings and a nil
// LambdaOptimization field mean "insufficient data", which callers
// must distinguish from "found nothing wrong".
type AnalysisResult struct {
	ID                 string                         `json:"id"`
	Imports            []string                       `json:"imports"`
	Triggers           []Trigger                      `json:"triggers"`
	Comparisons        map[string]PackageComparison   `json:"comparisons,omitempty"`
	CustomPackages     map[string]CustomPackageRecord `json:"custom_packages,omitempty"`
	Deprecations       []DeprecationInfo              `json:"deprecations,omitempty"`
	VersionReports     []VersionInfo                  `json:"version_reports,omitempty"`
	LambdaOptimization *LambdaOptimizationResult      `json:"lambda_optimization,omitempty"`
	Recommendations    []Recommendation               `json:"recommendations"`
	ParseDegraded      bool                           `json:"parse_degraded"`
	GeneratedAt        time.Time                      `json:"generated_at"`
}

// Clone returns a deep copy of the result. Cached results are handed
// out as clones so one caller mutating its copy cannot corrupt what
// other callers see.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r

	out.Imports = append([]string(nil), r.Imports...)

	if r.Triggers != nil {
		out.Triggers = make([]Trigger, len(r.Triggers))
		for i, trg := range r.Triggers {
			if trg.Details != nil {
				details := make(map[string]string, len(trg.Details))
				for k, v := range trg.Details {
					details[k] = v
				}
				trg.Details = details
			}
			out.Triggers[i] = trg
		}
	}

	if r.Comparisons != nil {
		out.Comparisons = make(map[string]PackageComparison, len(r.Comparisons))
		for k, cmp := range r.Comparisons {
			cmp.Alternatives = append([]Alternative(nil), cmp.Alternatives...)
			out.Comparisons[k] = cmp
		}
	}

	if r.CustomPackages != nil {
		out.CustomPackages = make(map[string]CustomPackageRecord, len(r.CustomPackages))
		for k, rec := range r.CustomPackages {
			rec.Functions = append([]string(nil), rec.Functions...)
			rec.Classes = append([]string(nil), rec.Classes...)
			out.CustomPackages[k] = rec
		}
	}

	if r.Deprecations != nil {
		out.Deprecations = make([]DeprecationInfo, len(r.Deprecations))
		for i, dep := range r.Deprecations {
			dep.Alternatives = append([]string(nil), dep.Alternatives...)
			out.Deprecations[i] = dep
		}
	}

	out.VersionReports = append([]VersionInfo(nil), r.VersionReports...)
	out.Recommendations = append([]Recommendation(nil), r.Recommendations...)

	if r.LambdaOptimization != nil {
		opt := *r.LambdaOptimization
		opt.RemovedPackages = append([]string(nil), opt.RemovedPackages...)
		if opt.LightweightReplacements != nil {
			repl := make(map[string]string, len(opt.LightweightReplacements))
			for k, v := range opt.LightweightReplacements {
				repl[k] = v
			}
			opt.LightweightReplacements = repl
		}
		out.LambdaOptimization = &opt
	}

	return &out
}

// HasTrigger reports whether a trigger of the given type fired.
func (r *AnalysisResult) HasTrigger(t TriggerType) bool {
	for _, trg := range r.Triggers {
		if trg.Type == t {
			return true
		}
	}
	return false
}
